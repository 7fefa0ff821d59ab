package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hyperus/surveys/internal/domains"
	"github.com/hyperus/surveys/internal/storage"

	"github.com/google/uuid"
)

type ResponseService struct {
	surveys   SurveyReader
	responses ResponseProvider
}

type SurveyReader interface {
	GetSurveyByUUID(ctx context.Context, surveyUUID uuid.UUID) (domains.Survey, error)
	GetQuestionByUUID(ctx context.Context, questionUUID uuid.UUID) (domains.Question, error)
	GetAnswerOptionByUUID(ctx context.Context, optionUUID uuid.UUID) (domains.AnswerOption, error)
	ListQuestions(ctx context.Context, surveyUUID uuid.UUID) ([]domains.Question, error)
}

type ResponseProvider interface {
	GetUserResponse(ctx context.Context, survey domains.Survey, userID *int64, responseUUID *uuid.UUID) (domains.UserResponse, error)
	GetOrCreateUserResponse(ctx context.Context, survey domains.Survey, userID *int64, responseUUID *uuid.UUID) (domains.UserResponse, bool, error)
	CompleteUserResponse(ctx context.Context, responseUUID uuid.UUID, completedAt time.Time) error
	ListAnswers(ctx context.Context, responseUUID uuid.UUID) ([]domains.UserAnswer, error)
	ListAnswersForQuestion(ctx context.Context, responseUUID, questionUUID uuid.UUID) ([]domains.UserAnswer, error)
	CreateUserAnswer(ctx context.Context, responseUUID, questionUUID uuid.UUID, optionUUID *uuid.UUID, textAnswer *string) error
	UpdateAnswerText(ctx context.Context, answerUUID uuid.UUID, textAnswer string) error
	UpdateAnswerOption(ctx context.Context, answerUUID uuid.UUID, optionUUID uuid.UUID) error
	DeleteUserAnswer(ctx context.Context, answerUUID uuid.UUID) error
}

func NewResponseService(surveys SurveyReader, responses ResponseProvider) *ResponseService {
	return &ResponseService{
		surveys:   surveys,
		responses: responses,
	}
}

// CompleteSurvey marks the respondent's response as completed and stamps the
// completion time. The response is resolved by user for regular surveys and
// by the response uuid for anonymous ones; a missing response yields
// ErrResponseNotFound. Every question must have a valid answer, reported as
// a ValidationError otherwise. Completing an already completed response is
// allowed and refreshes completed_at.
func (h *ResponseService) CompleteSurvey(ctx context.Context, surveyUUID uuid.UUID, userID *int64, responseUUID *uuid.UUID) error {
	survey, err := h.surveys.GetSurveyByUUID(ctx, surveyUUID)
	if err != nil {
		slog.Error("GetSurveyByUUID failed", "err", err, "survey", surveyUUID)
		return err
	}

	response, err := h.responses.GetUserResponse(ctx, survey, userID, responseUUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrResponseNotFound
		}
		slog.Error("GetUserResponse failed", "err", err, "survey", surveyUUID)
		return err
	}

	questions, err := h.surveys.ListQuestions(ctx, surveyUUID)
	if err != nil {
		slog.Error("ListQuestions failed", "err", err, "survey", surveyUUID)
		return err
	}
	answers, err := h.responses.ListAnswers(ctx, response.UUID)
	if err != nil {
		slog.Error("ListAnswers failed", "err", err, "response", response.UUID)
		return err
	}
	if questionErrors := validateQuestionAnswers(questions, answers); len(questionErrors) > 0 {
		return &ValidationError{
			Message:        "answers validation failed",
			QuestionErrors: questionErrors,
		}
	}

	return h.responses.CompleteUserResponse(ctx, response.UUID, time.Now().UTC())
}

// SubmitAnswer creates or updates one answer of a respondent, picking the
// mutation strategy by question type: text answers are upserted and deleted
// when cleared, single choice answers overwrite the previous option,
// multiple choice options toggle.
func (h *ResponseService) SubmitAnswer(ctx context.Context, req domains.UserAnswerRequest) (domains.SubmitAnswerResult, error) {
	survey, err := h.surveys.GetSurveyByUUID(ctx, req.SurveyUUID)
	if err != nil {
		slog.Error("GetSurveyByUUID failed", "err", err, "survey", req.SurveyUUID)
		return domains.SubmitAnswerResult{}, err
	}
	if survey.Status != domains.SurveyStatusActive {
		return domains.SubmitAnswerResult{}, ErrSurveyNotActive
	}

	question, err := h.surveys.GetQuestionByUUID(ctx, req.QuestionUUID)
	if err != nil {
		slog.Error("GetQuestionByUUID failed", "err", err, "question", req.QuestionUUID)
		return domains.SubmitAnswerResult{}, err
	}
	if err := checkAnswerShape(question, req); err != nil {
		return domains.SubmitAnswerResult{}, err
	}
	if req.AnswerOptionUUID != nil {
		option, err := h.surveys.GetAnswerOptionByUUID(ctx, *req.AnswerOptionUUID)
		if err != nil {
			slog.Error("GetAnswerOptionByUUID failed", "err", err, "option", *req.AnswerOptionUUID)
			return domains.SubmitAnswerResult{}, err
		}
		if option.QuestionUUID != question.UUID {
			return domains.SubmitAnswerResult{}, ErrOptionMismatch
		}
	}

	existing, err := h.responses.GetUserResponse(ctx, survey, req.UserID, req.ResponseUUID)
	if err == nil && IsCompleted(&existing) {
		return domains.SubmitAnswerResult{}, ErrSurveyCompleted
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return domains.SubmitAnswerResult{}, err
	}

	response, created, err := h.responses.GetOrCreateUserResponse(ctx, survey, req.UserID, req.ResponseUUID)
	if err != nil {
		slog.Error("GetOrCreateUserResponse failed", "err", err, "survey", req.SurveyUUID)
		return domains.SubmitAnswerResult{}, err
	}

	if err := h.handleAnswer(ctx, question, response, req); err != nil {
		slog.Error("handleAnswer failed", "err", err, "question", question.UUID)
		return domains.SubmitAnswerResult{}, err
	}

	canFinish, err := h.canFinish(ctx, survey, response)
	if err != nil {
		return domains.SubmitAnswerResult{}, err
	}

	return domains.SubmitAnswerResult{
		ResponseUUID:    response.UUID,
		ResponseCreated: created,
		CanFinish:       canFinish,
	}, nil
}

func (h *ResponseService) handleAnswer(ctx context.Context, question domains.Question, response domains.UserResponse, req domains.UserAnswerRequest) error {
	answers, err := h.responses.ListAnswersForQuestion(ctx, response.UUID, question.UUID)
	if err != nil {
		return err
	}

	switch question.Type {
	case domains.QuestionTypeText:
		return h.handleTextAnswer(ctx, response, question, answers, req.TextAnswer)
	case domains.QuestionTypeSingleChoice:
		if len(answers) > 0 {
			return h.responses.UpdateAnswerOption(ctx, answers[0].UUID, *req.AnswerOptionUUID)
		}
		return h.responses.CreateUserAnswer(ctx, response.UUID, question.UUID, req.AnswerOptionUUID, nil)
	case domains.QuestionTypeMultipleChoice:
		for _, answer := range answers {
			if answer.AnswerOptionUUID != nil && *answer.AnswerOptionUUID == *req.AnswerOptionUUID {
				return h.responses.DeleteUserAnswer(ctx, answer.UUID)
			}
		}
		return h.responses.CreateUserAnswer(ctx, response.UUID, question.UUID, req.AnswerOptionUUID, nil)
	default:
		return ErrUnknownQuestion
	}
}

func (h *ResponseService) handleTextAnswer(ctx context.Context, response domains.UserResponse, question domains.Question, answers []domains.UserAnswer, text *string) error {
	empty := text == nil || *text == ""
	if len(answers) > 0 {
		if empty {
			return h.responses.DeleteUserAnswer(ctx, answers[0].UUID)
		}
		return h.responses.UpdateAnswerText(ctx, answers[0].UUID, *text)
	}
	if empty {
		return nil
	}
	return h.responses.CreateUserAnswer(ctx, response.UUID, question.UUID, nil, text)
}

func (h *ResponseService) canFinish(ctx context.Context, survey domains.Survey, response domains.UserResponse) (bool, error) {
	questions, err := h.surveys.ListQuestions(ctx, survey.UUID)
	if err != nil {
		return false, err
	}
	answers, err := h.responses.ListAnswers(ctx, response.UUID)
	if err != nil {
		return false, err
	}
	return CanFinish(questions, answers), nil
}

func checkAnswerShape(question domains.Question, req domains.UserAnswerRequest) error {
	if question.Type == domains.QuestionTypeText {
		if req.AnswerOptionUUID != nil {
			return ErrOptionOnText
		}
		return nil
	}
	if req.TextAnswer != nil && *req.TextAnswer != "" {
		return ErrTextOnChoice
	}
	if req.AnswerOptionUUID == nil {
		return ErrOptionRequired
	}
	return nil
}
