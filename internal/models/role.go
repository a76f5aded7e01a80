package models

import "fmt"

// Role — роль пользователя платформы.
type Role string

const (
	// RoleUser — обычный участник (школьник).
	RoleUser Role = "user"
	// RoleOrganizer встречается в данных пользователей, но ни один маршрут его не выделяет.
	RoleOrganizer Role = "organizer"
	// RoleAdmin — администратор, имеет доступ к админ-панели.
	RoleAdmin Role = "admin"
)

// IsValid сообщает, входит ли роль в перечень известных.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole разбирает строку в Role и возвращает ошибку для неизвестных значений.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}
