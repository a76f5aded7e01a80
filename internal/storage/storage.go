// Package storage описывает записи и ошибки хранилища workshops-api.
// Реализация в памяти находится в пакете storage/memory.
package storage

import (
	"errors"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — запись с таким ключом уже есть.
	ErrAlreadyExists = errors.New("already exists")
)

// AdmitFunc решает, можно ли принять заявку reg в мастерскую w, у которой
// уже есть заявки existing. Может дополнить reg полями, зависящими от мастерской.
type AdmitFunc func(w models.Workshop, existing []models.Registration, reg *models.Registration) error

// User — учётная запись пользователя вместе с хешем пароля.
type User struct {
	models.UserProfile
	PasswordHash string
}

// Profile возвращает копию профиля без хеша пароля.
func (u *User) Profile() *models.UserProfile {
	p := u.UserProfile
	if u.Grade != nil {
		g := *u.Grade
		p.Grade = &g
	}
	return &p
}
