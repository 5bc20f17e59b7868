// Package validation проверяет формы до любых изменений в хранилище.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"design-studio/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	latinRe    = regexp.MustCompile(`^[a-zA-Z-]*$`)
	cyrillicRe = regexp.MustCompile(`^[а-яА-Я- ]*$`)
)

const (
	msgLatin    = "Имя пользователя может содержать только латинские буквы и дефис."
	msgCyrillic = "ФИО может содержать только кириллицу, дефис и пробелы"
)

// сообщения для конкретных полей важнее общих сообщений по тегу
var fieldMessages = map[string]string{
	"agree_to_terms.required": "Требуется согласие на обработку персональных данных",
	"password2.eqfield":       "Пароли не совпадают",
	"new_password2.eqfield":   "Пароли не совпадают",
	"category_id.required":    "Выберите категорию",
	"status.oneof":            "Неверный статус заявки",
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// в ошибках используем имена полей формы, а не структуры
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("latin", func(fl validator.FieldLevel) bool {
		return latinRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("cyrillic", func(fl validator.FieldLevel) bool {
		return cyrillicRe.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct возвращает ошибки по полям; пустой результат — форма корректна.
func (val *Validator) Struct(s any) apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	err := val.v.Struct(s)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("__all__", "Некорректные данные")
		return fields
	}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "latin":
		return msgLatin
	case "cyrillic":
		return msgCyrillic
	case "email":
		return "Введите правильный адрес электронной почты"
	case "min":
		return fmt.Sprintf("Минимальная длина — %s символов", fe.Param())
	case "max":
		return fmt.Sprintf("Максимальная длина — %s символов", fe.Param())
	case "eqfield":
		return "Значения не совпадают"
	case "oneof":
		return "Недопустимое значение"
	}
	return "Некорректное значение"
}
