package services

import "strings"

// SignupInput is the data needed to register an account.
type SignupInput struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
	DOB      string `json:"dob" form:"dob" validate:"required"`
}

func (in SignupInput) trimmed() SignupInput {
	in.Email = strings.TrimSpace(in.Email)
	in.DOB = strings.TrimSpace(in.DOB)
	return in
}

// ProfileInput carries a profile edit. An empty Password keeps the current
// one and a nil AvatarPath keeps the current avatar.
type ProfileInput struct {
	Email      string  `json:"email" form:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" form:"password" validate:"max=128"`
	DOB        string  `json:"dob" form:"dob" validate:"required"`
	AvatarPath *string `json:"-" form:"-"`
}

func (in ProfileInput) trimmed() ProfileInput {
	in.Email = strings.TrimSpace(in.Email)
	in.DOB = strings.TrimSpace(in.DOB)
	return in
}

// ItemInput carries the owner-supplied fields of an item. StartingPrice is
// required on create; on update it may be omitted and must otherwise equal
// the stored value.
type ItemInput struct {
	Title         string  `json:"title" validate:"required,max=255,singleline"`
	Description   string  `json:"desc"`
	StartingPrice string  `json:"starting_price"`
	EndDate       string  `json:"end_date" validate:"required"`
	PhotoPath     *string `json:"-"`
}

func (in ItemInput) trimmed() ItemInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.StartingPrice = strings.TrimSpace(in.StartingPrice)
	in.EndDate = strings.TrimSpace(in.EndDate)
	return in
}

// QuestionInput is a question about an item.
type QuestionInput struct {
	Question string `json:"question" form:"question" validate:"required"`
}

func (in QuestionInput) trimmed() QuestionInput {
	in.Question = strings.TrimSpace(in.Question)
	return in
}

// AnswerInput is the owner's reply to a question.
type AnswerInput struct {
	Answer string `json:"answer" form:"answer" validate:"required"`
}

func (in AnswerInput) trimmed() AnswerInput {
	in.Answer = strings.TrimSpace(in.Answer)
	return in
}
