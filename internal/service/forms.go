package service

// Формы биндятся handler-ами через c.ShouldBind и проверяются validation.Validator
// до любого обращения к хранилищу.

type RegisterForm struct {
	Username     string `form:"username" validate:"required,max=150,latin"`
	FirstName    string `form:"first_name" validate:"required,max=150,cyrillic"`
	LastName     string `form:"last_name" validate:"required,max=150,cyrillic"`
	Patronymic   string `form:"patronymic" validate:"max=50,cyrillic"`
	Email        string `form:"email" validate:"required,email,max=254"`
	Password     string `form:"password" validate:"required,min=8,max=128"`
	Password2    string `form:"password2" validate:"required,eqfield=Password"`
	IsEmployer   bool   `form:"is_employer"`
	AgreeToTerms bool   `form:"agree_to_terms" validate:"required"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type ProfileForm struct {
	Username   string `form:"username" validate:"required,max=150,latin"`
	FirstName  string `form:"first_name" validate:"required,max=150,cyrillic"`
	LastName   string `form:"last_name" validate:"required,max=150,cyrillic"`
	Patronymic string `form:"patronymic" validate:"max=50,cyrillic"`
	Email      string `form:"email" validate:"required,email,max=254"`
}

type PasswordForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required,min=8,max=128"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// ApplicationForm не содержит статуса: новая заявка всегда создаётся со статусом "n".
type ApplicationForm struct {
	Name        string `form:"name" validate:"required,max=255"`
	Description string `form:"description" validate:"required,max=5000"`
	CategoryID  uint   `form:"category_id" validate:"required"`
}

type StatusForm struct {
	Status  string `form:"status" validate:"required,oneof=n a d"`
	Comment string `form:"comment" validate:"max=2000"`
}

type CategoryForm struct {
	Name string `form:"name" validate:"required,max=100"`
}

// Upload — содержимое загруженного файла.
type Upload struct {
	Filename string
	Data     []byte
}

func (u Upload) Empty() bool { return len(u.Data) == 0 }
