// Package validation проверяет ввод пользователя на шагах диалогов
package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Freeeeeet/mentor_bot/internal/model"
)

const (
	MinAge = 5
	MaxAge = 120

	// SkipSurname пропуск необязательной фамилии
	SkipSurname = "-"
)

var (
	ErrNameTooShort   = errors.New("name too short")
	ErrNameHasDigits  = errors.New("name contains digits")
	ErrNameBadSymbols = errors.New("name contains invalid symbols")
	ErrAgeNotNumber   = errors.New("age is not a number")
	ErrAgeOutOfRange  = errors.New("age out of range")
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidURL     = errors.New("invalid url")
	ErrNotYouTube     = errors.New("not a youtube link")
	ErrEmptyText      = errors.New("empty text")
)

// Name проверяет имя: только буквы и пробелы, не короче двух символов
func Name(input string) (string, error) {
	name := strings.TrimSpace(input)
	if utf8.RuneCountInString(name) < 2 {
		return "", ErrNameTooShort
	}

	for _, r := range name {
		switch {
		case unicode.IsDigit(r):
			return "", ErrNameHasDigits
		case unicode.IsLetter(r) || r == ' ':
		default:
			return "", ErrNameBadSymbols
		}
	}

	return name, nil
}

// Surname проверяет фамилию; "-" означает пропуск и возвращает nil
func Surname(input string) (*string, error) {
	if strings.TrimSpace(input) == SkipSurname {
		return nil, nil
	}

	surname, err := Name(input)
	if err != nil {
		return nil, err
	}
	return &surname, nil
}

// Age проверяет возраст: целое число от MinAge до MaxAge
func Age(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrAgeNotNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrAgeNotNumber
		}
	}

	age, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrAgeOutOfRange
	}
	if age < MinAge || age > MaxAge {
		return 0, ErrAgeOutOfRange
	}

	return age, nil
}

// Коды кнопок выбора роли
const (
	RoleStudentKey = "role_student"
	RolePupilKey   = "role_pupil"
	RoleWorkerKey  = "role_worker"
	RoleOtherKey   = "role_other"
)

var roles = map[string]string{
	RoleStudentKey: model.RoleStudent,
	RolePupilKey:   model.RolePupil,
	RoleWorkerKey:  model.RoleWorker,
	RoleOtherKey:   model.RoleOther,
}

// Role сопоставляет код кнопки с ролью, свободный текст не принимается
func Role(key string) (string, error) {
	role, ok := roles[key]
	if !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

// SponsorURL принимает ссылки вида https://t.me/..., http://t.me/... и t.me/...
func SponsorURL(input string) (string, error) {
	url := strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(url, "https://t.me/"), strings.HasPrefix(url, "http://t.me/"):
	case strings.HasPrefix(url, "t.me/"):
		url = "https://" + url
	default:
		return "", ErrInvalidURL
	}

	if strings.HasSuffix(url, "t.me/") {
		return "", ErrInvalidURL
	}

	return url, nil
}

// ButtonURL принимает http(s) ссылки и короткую форму t.me/...
func ButtonURL(input string) (string, error) {
	url := strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		if len(url) == len("https://") || url == "http://" {
			return "", ErrInvalidURL
		}
	case strings.HasPrefix(url, "t.me/"):
		url = "https://" + url
	default:
		return "", ErrInvalidURL
	}

	return url, nil
}

// YouTubeURL проверяет, что ссылка ведёт на видеохостинг
func YouTubeURL(input string) (string, error) {
	url := strings.TrimSpace(input)
	if !strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		return "", ErrNotYouTube
	}
	return url, nil
}

// Title проверяет названия категорий, курсов и материалов
func Title(input string) (string, error) {
	title := strings.TrimSpace(input)
	if utf8.RuneCountInString(title) < 2 {
		return "", ErrNameTooShort
	}
	return title, nil
}

// Text проверяет непустой текст
func Text(input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
