package tasklist

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskmanager/model"
	"taskmanager/store"
)

const msgRequired = "required"

// Input is the five user-editable fields of a task.
type Input struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"required,priority"`
	DueDate     string `json:"dueDate" validate:"required,duedate"`
	DueTime     string `json:"dueTime" validate:"required,duetime"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePriority(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDueDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("duetime", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDueTime(fl.Field().String())
		return err == nil
	})
	return v
}

var fieldMessages = map[string]string{
	"required": msgRequired,
	"priority": model.ErrUnknownPriority.Error(),
	"duedate":  model.ErrInvalidDate.Error(),
	"duetime":  model.ErrInvalidTime.Error(),
}

// Normalize trims every field, checks it and returns the canonical form
// (known priority spelling, zero-padded date, HH:MM time).
func (in Input) Normalize() (Input, error) {
	out := Input{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    strings.TrimSpace(in.Priority),
		DueDate:     strings.TrimSpace(in.DueDate),
		DueTime:     strings.TrimSpace(in.DueTime),
	}

	if err := validate.Struct(out); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Input{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessages[fe.Tag()]
		}
		return Input{}, &ValidationError{Fields: fields}
	}

	// validated above, parse errors are impossible here
	p, _ := model.ParsePriority(out.Priority)
	out.Priority = p.String()
	out.DueDate, _ = model.ParseDueDate(out.DueDate)
	out.DueTime, _ = model.ParseDueTime(out.DueTime)
	return out, nil
}

func (in Input) reminder() string {
	return model.ReminderDateTime(in.DueDate, in.DueTime)
}

func (in Input) fields() store.Fields {
	return store.Fields{
		Title:            in.Title,
		Description:      in.Description,
		Priority:         in.Priority,
		DueDate:          in.DueDate,
		ReminderDateTime: in.reminder(),
	}
}

func (in Input) task(userID string) model.Task {
	return model.Task{
		UserID:           userID,
		Title:            in.Title,
		Description:      in.Description,
		Priority:         in.Priority,
		DueDate:          in.DueDate,
		ReminderDateTime: in.reminder(),
	}
}
