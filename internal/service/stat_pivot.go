package service

import (
	"github.com/hyperus/surveys/internal/domains"

	"github.com/google/uuid"
)

// StatSurvey pivots flat answer-count rows into the nested
// survey -> question -> answers tree. Surveys and questions keep the order
// of their first occurrence in the row sequence. Survey header fields are
// overwritten by every row for that survey, so the last row wins; question
// header fields (including total_count) are filled once, on the question's
// first row. Every row contributes exactly one answer entry to its question.
func StatSurvey(rows []domains.AnswerCountRow) []domains.SurveyStat {
	surveys := make(map[uuid.UUID]*domains.SurveyStat)
	questions := make(map[uuid.UUID]map[uuid.UUID]int)
	order := make([]uuid.UUID, 0, len(rows))

	for _, row := range rows {
		survey, ok := surveys[row.SurveyUUID]
		if !ok {
			survey = &domains.SurveyStat{Questions: []domains.QuestionStat{}}
			surveys[row.SurveyUUID] = survey
			questions[row.SurveyUUID] = make(map[uuid.UUID]int)
			order = append(order, row.SurveyUUID)
		}
		survey.UUID = row.SurveyUUID
		survey.Name = row.SurveyName
		survey.Status = row.SurveyStatus

		idx, ok := questions[row.SurveyUUID][row.QuestionUUID]
		if !ok {
			idx = len(survey.Questions)
			questions[row.SurveyUUID][row.QuestionUUID] = idx
			survey.Questions = append(survey.Questions, domains.QuestionStat{
				UUID:       row.QuestionUUID,
				Name:       row.QuestionName,
				Type:       row.QuestionType,
				TotalCount: row.TotalCount,
				Answers:    []domains.AnswerStat{},
			})
		}

		var name string
		if row.AnswerName != nil {
			name = *row.AnswerName
		}
		survey.Questions[idx].Answers = append(survey.Questions[idx].Answers, domains.AnswerStat{
			UUID:       row.AnswerUUID,
			Name:       name,
			Count:      row.AnswerCount,
			Percentage: row.Percentage,
		})
	}

	result := make([]domains.SurveyStat, 0, len(order))
	for _, surveyUUID := range order {
		result = append(result, *surveys[surveyUUID])
	}
	return result
}

// StatUserSurvey pivots user-scoped answer rows into the nested
// survey -> user -> question -> answers tree. Surveys and users keep
// first-occurrence order; user identity fields are filled on the user's
// first row. A question appears at most once per user, found by a linear
// scan, and collects one answer entry per row: free-text questions emit a
// text variant, choice questions an option variant.
func StatUserSurvey(rows []domains.UserAnswerRow) []domains.SurveyUserStat {
	surveys := make(map[uuid.UUID]*domains.SurveyUserStat)
	users := make(map[uuid.UUID]map[int64]int)
	order := make([]uuid.UUID, 0, len(rows))

	for _, row := range rows {
		survey, ok := surveys[row.SurveyUUID]
		if !ok {
			survey = &domains.SurveyUserStat{Users: []domains.UserStat{}}
			surveys[row.SurveyUUID] = survey
			users[row.SurveyUUID] = make(map[int64]int)
			order = append(order, row.SurveyUUID)
		}
		survey.UUID = row.SurveyUUID
		survey.Name = row.SurveyName
		survey.Status = row.SurveyStatus

		userIdx, ok := users[row.SurveyUUID][row.UserID]
		if !ok {
			userIdx = len(survey.Users)
			users[row.SurveyUUID][row.UserID] = userIdx
			survey.Users = append(survey.Users, domains.UserStat{
				UUID:        row.UserID,
				Name:        row.FirstName + " " + row.LastName,
				Photo:       row.Photo,
				CompletedAt: row.CompletedAt,
				Questions:   []domains.UserQuestionStat{},
			})
		}
		user := &survey.Users[userIdx]

		exists := false
		for _, question := range user.Questions {
			if question.UUID == row.QuestionUUID {
				exists = true
				break
			}
		}
		if !exists {
			user.Questions = append(user.Questions, domains.UserQuestionStat{
				UUID:    row.QuestionUUID,
				Name:    row.QuestionName,
				Type:    row.QuestionType,
				Answers: []domains.UserAnswerStat{},
			})
		}

		for i := range user.Questions {
			if user.Questions[i].UUID != row.QuestionUUID {
				continue
			}
			var answer domains.UserAnswerStat
			if row.QuestionType == domains.QuestionTypeText {
				var text string
				if row.TextAnswer != nil {
					text = *row.TextAnswer
				}
				answer = domains.TextAnswerStat(text)
			} else {
				var name string
				if row.AnswerName != nil {
					name = *row.AnswerName
				}
				answer = domains.ChoiceAnswerStat(row.AnswerUUID, name)
			}
			user.Questions[i].Answers = append(user.Questions[i].Answers, answer)
			break
		}
	}

	result := make([]domains.SurveyUserStat, 0, len(order))
	for _, surveyUUID := range order {
		result = append(result, *surveys[surveyUUID])
	}
	return result
}
