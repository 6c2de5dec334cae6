// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"slices"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/document"
)

// DocumentRepository implements [Repository] on the "users" collection.
type DocumentRepository struct {
	store *document.Store
}

// NewDocumentRepository creates a user repository backed by the JSON document.
func NewDocumentRepository(store *document.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.find(context, func(u User) bool { return u.ID == id })
}

func (repository *DocumentRepository) FindByEmail(context context.Context, email string) (*User, error) {
	key := NormalizeEmail(email)
	return repository.find(context, func(u User) bool { return NormalizeEmail(u.Email) == key })
}

func (repository *DocumentRepository) List(context context.Context) ([]User, error) {
	var users []User
	err := repository.store.View(context, func(doc *document.Document) error {
		var err error
		users, err = document.Decode[User](doc, document.Users)
		return err
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(users, func(a, b User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return users, nil
}

func (repository *DocumentRepository) Count(context context.Context) (int, error) {
	users, err := repository.List(context)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (repository *DocumentRepository) Create(context context.Context, user *User) error {
	return repository.store.Update(context, func(doc *document.Document) error {
		users, err := document.Decode[User](doc, document.Users)
		if err != nil {
			return err
		}

		if emailTaken(users, user.Email, "") {
			return apperr.Conflict("A user with this email already exists")
		}

		return document.Encode(doc, document.Users, append(users, *user))
	})
}

func (repository *DocumentRepository) Update(context context.Context, user *User) error {
	return repository.store.Update(context, func(doc *document.Document) error {
		users, err := document.Decode[User](doc, document.Users)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(users, func(u User) bool { return u.ID == user.ID })
		if index < 0 {
			return apperr.NotFound("User")
		}

		if emailTaken(users, user.Email, user.ID) {
			return apperr.Conflict("A user with this email already exists")
		}

		users[index] = *user
		return document.Encode(doc, document.Users, users)
	})
}

func (repository *DocumentRepository) find(context context.Context, match func(User) bool) (*User, error) {
	var found *User
	err := repository.store.View(context, func(doc *document.Document) error {
		users, err := document.Decode[User](doc, document.Users)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(users, match)
		if index < 0 {
			return apperr.NotFound("User")
		}

		found = &users[index]
		return nil
	})
	return found, err
}

// emailTaken reports whether another user than exceptID already uses email.
func emailTaken(users []User, email, exceptID string) bool {
	key := NormalizeEmail(email)
	return slices.ContainsFunc(users, func(u User) bool {
		return u.ID != exceptID && NormalizeEmail(u.Email) == key
	})
}
