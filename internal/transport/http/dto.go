package httptransport

type UserAnswerBody struct {
	Survey       string  `json:"survey"`
	Question     string  `json:"question"`
	AnswerOption *string `json:"answer_option,omitempty"`
	TextAnswer   *string `json:"text_answer,omitempty"`
}

type CompleteSurveyBody struct {
	UserResponseUUID *string `json:"user_response_uuid,omitempty"`
}
