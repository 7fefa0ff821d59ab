package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperus/surveys/internal/domains"
	"github.com/hyperus/surveys/internal/storage"

	"github.com/google/uuid"
)

type fakeSurveyReader struct {
	survey      domains.Survey
	surveyErr   error
	question    domains.Question
	questionErr error
	questions   []domains.Question
	option      *domains.AnswerOption
}

func (f *fakeSurveyReader) GetSurveyByUUID(_ context.Context, _ uuid.UUID) (domains.Survey, error) {
	return f.survey, f.surveyErr
}

func (f *fakeSurveyReader) GetQuestionByUUID(_ context.Context, _ uuid.UUID) (domains.Question, error) {
	return f.question, f.questionErr
}

func (f *fakeSurveyReader) GetAnswerOptionByUUID(_ context.Context, optionUUID uuid.UUID) (domains.AnswerOption, error) {
	if f.option != nil {
		return *f.option, nil
	}
	return domains.AnswerOption{
		UUID:         optionUUID,
		QuestionUUID: f.question.UUID,
		Name:         "Option",
		IsActive:     true,
	}, nil
}

func (f *fakeSurveyReader) ListQuestions(_ context.Context, _ uuid.UUID) ([]domains.Question, error) {
	return f.questions, nil
}

type fakeResponseProvider struct {
	response        domains.UserResponse
	responseErr     error
	answers         []domains.UserAnswer
	questionAnswers []domains.UserAnswer

	completedUUID uuid.UUID
	completedAt   time.Time
	created       []domains.UserAnswer
	updatedText   map[uuid.UUID]string
	updatedOption map[uuid.UUID]uuid.UUID
	deleted       []uuid.UUID
	responseMade  bool
}

func (f *fakeResponseProvider) GetUserResponse(_ context.Context, _ domains.Survey, _ *int64, _ *uuid.UUID) (domains.UserResponse, error) {
	return f.response, f.responseErr
}

func (f *fakeResponseProvider) GetOrCreateUserResponse(_ context.Context, survey domains.Survey, userID *int64, _ *uuid.UUID) (domains.UserResponse, bool, error) {
	if f.responseErr == nil {
		return f.response, false, nil
	}
	f.responseMade = true
	return domains.UserResponse{
		UUID:       uuid.New(),
		SurveyUUID: survey.UUID,
		UserID:     userID,
		Status:     domains.ResponseStatusInProgress,
	}, true, nil
}

func (f *fakeResponseProvider) CompleteUserResponse(_ context.Context, responseUUID uuid.UUID, completedAt time.Time) error {
	f.completedUUID = responseUUID
	f.completedAt = completedAt
	return nil
}

func (f *fakeResponseProvider) ListAnswers(_ context.Context, _ uuid.UUID) ([]domains.UserAnswer, error) {
	return f.answers, nil
}

func (f *fakeResponseProvider) ListAnswersForQuestion(_ context.Context, _, _ uuid.UUID) ([]domains.UserAnswer, error) {
	return f.questionAnswers, nil
}

func (f *fakeResponseProvider) CreateUserAnswer(_ context.Context, responseUUID, questionUUID uuid.UUID, optionUUID *uuid.UUID, textAnswer *string) error {
	f.created = append(f.created, domains.UserAnswer{
		UUID:             uuid.New(),
		UserResponseUUID: responseUUID,
		QuestionUUID:     questionUUID,
		AnswerOptionUUID: optionUUID,
		TextAnswer:       textAnswer,
	})
	return nil
}

func (f *fakeResponseProvider) UpdateAnswerText(_ context.Context, answerUUID uuid.UUID, textAnswer string) error {
	if f.updatedText == nil {
		f.updatedText = make(map[uuid.UUID]string)
	}
	f.updatedText[answerUUID] = textAnswer
	return nil
}

func (f *fakeResponseProvider) UpdateAnswerOption(_ context.Context, answerUUID uuid.UUID, optionUUID uuid.UUID) error {
	if f.updatedOption == nil {
		f.updatedOption = make(map[uuid.UUID]uuid.UUID)
	}
	f.updatedOption[answerUUID] = optionUUID
	return nil
}

func (f *fakeResponseProvider) DeleteUserAnswer(_ context.Context, answerUUID uuid.UUID) error {
	f.deleted = append(f.deleted, answerUUID)
	return nil
}

func activeSurvey(anonymous bool) domains.Survey {
	return domains.Survey{
		UUID:        uuid.New(),
		Name:        "Survey",
		Status:      domains.SurveyStatusActive,
		IsAnonymous: anonymous,
	}
}

func textQuestion(survey uuid.UUID) domains.Question {
	return domains.Question{
		UUID:       uuid.New(),
		SurveyUUID: survey,
		SeqID:      1,
		Name:       "Text question",
		Type:       domains.QuestionTypeText,
		IsActive:   true,
	}
}

func choiceQuestion(survey uuid.UUID, questionType string) domains.Question {
	return domains.Question{
		UUID:       uuid.New(),
		SurveyUUID: survey,
		SeqID:      2,
		Name:       "Choice question",
		Type:       questionType,
		IsActive:   true,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestCompleteSurveyMarksResponseCompleted(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	response := domains.UserResponse{
		UUID:       uuid.New(),
		SurveyUUID: survey.UUID,
		UserID:     int64Ptr(1),
		Status:     domains.ResponseStatusInProgress,
	}
	option := uuid.New()

	responses := &fakeResponseProvider{
		response: response,
		answers: []domains.UserAnswer{
			{UUID: uuid.New(), UserResponseUUID: response.UUID, QuestionUUID: question.UUID, AnswerOptionUUID: &option},
		},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, questions: []domains.Question{question}}, responses)

	start := time.Now().UTC()
	if err := svc.CompleteSurvey(context.Background(), survey.UUID, int64Ptr(1), nil); err != nil {
		t.Fatalf("CompleteSurvey failed: %v", err)
	}

	if responses.completedUUID != response.UUID {
		t.Errorf("expected response %s completed, got %s", response.UUID, responses.completedUUID)
	}
	if responses.completedAt.Before(start) || responses.completedAt.After(start.Add(time.Minute)) {
		t.Errorf("completed_at not stamped with the call time: %v", responses.completedAt)
	}
}

func TestCompleteSurveyAlreadyCompletedRefreshesTimestamp(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	old := time.Now().UTC().Add(-24 * time.Hour)
	response := domains.UserResponse{
		UUID:        uuid.New(),
		SurveyUUID:  survey.UUID,
		UserID:      int64Ptr(1),
		Status:      domains.ResponseStatusCompleted,
		CompletedAt: &old,
	}
	option := uuid.New()

	responses := &fakeResponseProvider{
		response: response,
		answers: []domains.UserAnswer{
			{UUID: uuid.New(), UserResponseUUID: response.UUID, QuestionUUID: question.UUID, AnswerOptionUUID: &option},
		},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, questions: []domains.Question{question}}, responses)

	if err := svc.CompleteSurvey(context.Background(), survey.UUID, int64Ptr(1), nil); err != nil {
		t.Fatalf("re-completing must be allowed: %v", err)
	}
	if !responses.completedAt.After(old) {
		t.Errorf("completed_at must be overwritten, still %v", responses.completedAt)
	}
}

func TestCompleteSurveyResponseNotFound(t *testing.T) {
	survey := activeSurvey(false)
	responses := &fakeResponseProvider{responseErr: storage.ErrNotFound}
	svc := NewResponseService(&fakeSurveyReader{survey: survey}, responses)

	err := svc.CompleteSurvey(context.Background(), survey.UUID, int64Ptr(1), nil)
	if !errors.Is(err, ErrResponseNotFound) {
		t.Fatalf("expected ErrResponseNotFound, got %v", err)
	}
}

func TestCompleteSurveyUnansweredQuestion(t *testing.T) {
	survey := activeSurvey(false)
	question := textQuestion(survey.UUID)
	response := domains.UserResponse{
		UUID:       uuid.New(),
		SurveyUUID: survey.UUID,
		UserID:     int64Ptr(1),
		Status:     domains.ResponseStatusInProgress,
	}

	responses := &fakeResponseProvider{response: response}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, questions: []domains.Question{question}}, responses)

	err := svc.CompleteSurvey(context.Background(), survey.UUID, int64Ptr(1), nil)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validation.QuestionErrors[question.UUID.String()]; !ok {
		t.Errorf("expected error for question %s, got %v", question.UUID, validation.QuestionErrors)
	}
	if responses.completedUUID != uuid.Nil {
		t.Errorf("response must not be completed on validation failure")
	}
}

func TestSubmitAnswerInactiveSurvey(t *testing.T) {
	survey := activeSurvey(false)
	survey.Status = domains.SurveyStatusDraft
	svc := NewResponseService(&fakeSurveyReader{survey: survey}, &fakeResponseProvider{})

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID: survey.UUID,
		UserID:     int64Ptr(1),
	})
	if !errors.Is(err, ErrSurveyNotActive) {
		t.Fatalf("expected ErrSurveyNotActive, got %v", err)
	}
}

func TestSubmitAnswerCompletedSurveyRejected(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	option := uuid.New()
	responses := &fakeResponseProvider{
		response: domains.UserResponse{
			UUID:       uuid.New(),
			SurveyUUID: survey.UUID,
			Status:     domains.ResponseStatusCompleted,
		},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question}, responses)

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &option,
		UserID:           int64Ptr(1),
	})
	if !errors.Is(err, ErrSurveyCompleted) {
		t.Fatalf("expected ErrSurveyCompleted, got %v", err)
	}
}

func TestSubmitAnswerTextUpsert(t *testing.T) {
	survey := activeSurvey(false)
	question := textQuestion(survey.UUID)
	existing := domains.UserAnswer{UUID: uuid.New(), QuestionUUID: question.UUID, TextAnswer: strPtr("old")}
	responses := &fakeResponseProvider{
		response: domains.UserResponse{
			UUID:       uuid.New(),
			SurveyUUID: survey.UUID,
			Status:     domains.ResponseStatusInProgress,
		},
		questionAnswers: []domains.UserAnswer{existing},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, questions: []domains.Question{question}}, responses)

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:   survey.UUID,
		QuestionUUID: question.UUID,
		TextAnswer:   strPtr("new"),
		UserID:       int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if responses.updatedText[existing.UUID] != "new" {
		t.Errorf("expected text answer updated in place, got %v", responses.updatedText)
	}
	if len(responses.created) != 0 {
		t.Errorf("no new answer expected, got %d", len(responses.created))
	}
}

func TestSubmitAnswerTextClearedDeletes(t *testing.T) {
	survey := activeSurvey(false)
	question := textQuestion(survey.UUID)
	existing := domains.UserAnswer{UUID: uuid.New(), QuestionUUID: question.UUID, TextAnswer: strPtr("old")}
	responses := &fakeResponseProvider{
		response: domains.UserResponse{
			UUID:       uuid.New(),
			SurveyUUID: survey.UUID,
			Status:     domains.ResponseStatusInProgress,
		},
		questionAnswers: []domains.UserAnswer{existing},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, questions: []domains.Question{question}}, responses)

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:   survey.UUID,
		QuestionUUID: question.UUID,
		TextAnswer:   strPtr(""),
		UserID:       int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if len(responses.deleted) != 1 || responses.deleted[0] != existing.UUID {
		t.Errorf("expected cleared text answer deleted, got %v", responses.deleted)
	}
}

func TestSubmitAnswerSingleChoiceOverwrites(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	oldOption := uuid.New()
	newOption := uuid.New()
	existing := domains.UserAnswer{UUID: uuid.New(), QuestionUUID: question.UUID, AnswerOptionUUID: &oldOption}
	responses := &fakeResponseProvider{
		response: domains.UserResponse{
			UUID:       uuid.New(),
			SurveyUUID: survey.UUID,
			Status:     domains.ResponseStatusInProgress,
		},
		questionAnswers: []domains.UserAnswer{existing},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, questions: []domains.Question{question}}, responses)

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &newOption,
		UserID:           int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if responses.updatedOption[existing.UUID] != newOption {
		t.Errorf("expected option overwritten, got %v", responses.updatedOption)
	}
}

func TestSubmitAnswerMultipleChoiceToggles(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeMultipleChoice)
	option := uuid.New()
	existing := domains.UserAnswer{UUID: uuid.New(), QuestionUUID: question.UUID, AnswerOptionUUID: &option}
	responses := &fakeResponseProvider{
		response: domains.UserResponse{
			UUID:       uuid.New(),
			SurveyUUID: survey.UUID,
			Status:     domains.ResponseStatusInProgress,
		},
		questionAnswers: []domains.UserAnswer{existing},
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, questions: []domains.Question{question}}, responses)

	// picking the already selected option removes it
	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &option,
		UserID:           int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if len(responses.deleted) != 1 || responses.deleted[0] != existing.UUID {
		t.Fatalf("expected toggle to delete, got %v", responses.deleted)
	}

	// picking a different option adds it
	other := uuid.New()
	_, err = svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &other,
		UserID:           int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if len(responses.created) != 1 {
		t.Fatalf("expected toggle to create, got %d created", len(responses.created))
	}
}

func TestSubmitAnswerShapeChecks(t *testing.T) {
	survey := activeSurvey(false)
	option := uuid.New()

	cases := []struct {
		name     string
		question domains.Question
		req      domains.UserAnswerRequest
		want     error
	}{
		{
			name:     "option on text question",
			question: textQuestion(survey.UUID),
			req:      domains.UserAnswerRequest{AnswerOptionUUID: &option},
			want:     ErrOptionOnText,
		},
		{
			name:     "text on choice question",
			question: choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice),
			req:      domains.UserAnswerRequest{TextAnswer: strPtr("text"), AnswerOptionUUID: &option},
			want:     ErrTextOnChoice,
		},
		{
			name:     "missing option on choice question",
			question: choiceQuestion(survey.UUID, domains.QuestionTypeMultipleChoice),
			req:      domains.UserAnswerRequest{},
			want:     ErrOptionRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewResponseService(&fakeSurveyReader{survey: survey, question: tc.question}, &fakeResponseProvider{})
			req := tc.req
			req.SurveyUUID = survey.UUID
			req.QuestionUUID = tc.question.UUID
			req.UserID = int64Ptr(1)

			if _, err := svc.SubmitAnswer(context.Background(), req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitAnswerOptionFromAnotherQuestion(t *testing.T) {
	survey := activeSurvey(false)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	option := uuid.New()
	foreign := domains.AnswerOption{
		UUID:         option,
		QuestionUUID: uuid.New(),
		Name:         "Option",
		IsActive:     true,
	}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, option: &foreign}, &fakeResponseProvider{})

	_, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &option,
		UserID:           int64Ptr(1),
	})
	if !errors.Is(err, ErrOptionMismatch) {
		t.Fatalf("expected ErrOptionMismatch, got %v", err)
	}
}

func TestSubmitAnswerAnonymousCreatesResponse(t *testing.T) {
	survey := activeSurvey(true)
	question := choiceQuestion(survey.UUID, domains.QuestionTypeSingleChoice)
	option := uuid.New()
	responses := &fakeResponseProvider{responseErr: storage.ErrNotFound}
	svc := NewResponseService(&fakeSurveyReader{survey: survey, question: question, questions: []domains.Question{question}}, responses)

	result, err := svc.SubmitAnswer(context.Background(), domains.UserAnswerRequest{
		SurveyUUID:       survey.UUID,
		QuestionUUID:     question.UUID,
		AnswerOptionUUID: &option,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !result.ResponseCreated {
		t.Errorf("expected a fresh anonymous response")
	}
	if result.ResponseUUID == uuid.Nil {
		t.Errorf("expected the new response uuid in the result")
	}
	if !responses.responseMade {
		t.Errorf("expected GetOrCreateUserResponse to create")
	}
}
