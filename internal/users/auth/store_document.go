// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/document"
)

// # OTP Codes

// DocumentOTPRepository implements [OTPRepository] on the "otpCodes" collection.
type DocumentOTPRepository struct {
	store *document.Store
}

// NewDocumentOTPRepository creates an OTP repository backed by the JSON document.
func NewDocumentOTPRepository(store *document.Store) *DocumentOTPRepository {
	return &DocumentOTPRepository{store: store}
}

func (repository *DocumentOTPRepository) Replace(context context.Context, code *OTPCode) error {
	return repository.store.Update(context, func(doc *document.Document) error {
		codes, err := document.Decode[OTPCode](doc, document.OTPCodes)
		if err != nil {
			return err
		}

		codes = slices.DeleteFunc(codes, func(c OTPCode) bool { return c.Email == code.Email })
		return document.Encode(doc, document.OTPCodes, append(codes, *code))
	})
}

func (repository *DocumentOTPRepository) Find(context context.Context, email string) (*OTPCode, error) {
	var found *OTPCode
	err := repository.store.View(context, func(doc *document.Document) error {
		codes, err := document.Decode[OTPCode](doc, document.OTPCodes)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(codes, func(c OTPCode) bool { return c.Email == email })
		if index < 0 {
			return ErrNoRecord
		}

		found = &codes[index]
		return nil
	})
	return found, err
}

func (repository *DocumentOTPRepository) Consume(context context.Context, email string, remove func(code *OTPCode) bool) (*OTPCode, bool, error) {
	var (
		found   *OTPCode
		removed bool
	)

	err := repository.store.Update(context, func(doc *document.Document) error {
		codes, err := document.Decode[OTPCode](doc, document.OTPCodes)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(codes, func(c OTPCode) bool { return c.Email == email })
		if index < 0 {
			return ErrNoRecord
		}

		code := codes[index]
		found = &code
		if !remove(found) {
			return errNoChange
		}

		removed = true
		return document.Encode(doc, document.OTPCodes, slices.Delete(codes, index, index+1))
	})
	if errors.Is(err, errNoChange) {
		return found, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return found, removed, nil
}

func (repository *DocumentOTPRepository) DeleteExpired(context context.Context, before time.Time) (int, error) {
	return removeWhere(context, repository.store, document.OTPCodes, func(c OTPCode) bool { return c.Expired(before) })
}

// # Sessions

// DocumentSessionRepository implements [SessionRepository] on the "sessions" collection.
type DocumentSessionRepository struct {
	store *document.Store
}

// NewDocumentSessionRepository creates a session repository backed by the JSON document.
func NewDocumentSessionRepository(store *document.Store) *DocumentSessionRepository {
	return &DocumentSessionRepository{store: store}
}

func (repository *DocumentSessionRepository) Create(context context.Context, session *Session) error {
	return repository.store.Update(context, func(doc *document.Document) error {
		sessions, err := document.Decode[Session](doc, document.Sessions)
		if err != nil {
			return err
		}

		if slices.ContainsFunc(sessions, func(s Session) bool { return s.TokenHash == session.TokenHash }) {
			return ErrDuplicateSession
		}

		return document.Encode(doc, document.Sessions, append(sessions, *session))
	})
}

func (repository *DocumentSessionRepository) Find(context context.Context, tokenHash string) (*Session, error) {
	var found *Session
	err := repository.store.View(context, func(doc *document.Document) error {
		sessions, err := document.Decode[Session](doc, document.Sessions)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(sessions, func(s Session) bool { return s.TokenHash == tokenHash })
		if index < 0 {
			return ErrNoRecord
		}

		found = &sessions[index]
		return nil
	})
	return found, err
}

func (repository *DocumentSessionRepository) Delete(context context.Context, tokenHash string) error {
	_, err := removeWhere(context, repository.store, document.Sessions, func(s Session) bool { return s.TokenHash == tokenHash })
	return err
}

func (repository *DocumentSessionRepository) DeleteExpired(context context.Context, before time.Time) (int, error) {
	return removeWhere(context, repository.store, document.Sessions, func(s Session) bool { return s.Expired(before) })
}

// removeWhere drops the matching rows of a collection, skipping the rewrite when nothing matched.
func removeWhere[T any](context context.Context, store *document.Store, collection document.Collection, match func(T) bool) (int, error) {
	removed := 0

	err := store.Update(context, func(doc *document.Document) error {
		rows, err := document.Decode[T](doc, collection)
		if err != nil {
			return err
		}

		kept := slices.DeleteFunc(rows, match)
		removed = len(rows) - len(kept)
		if removed == 0 {
			return errNoChange
		}

		return document.Encode(doc, collection, kept)
	})
	if errors.Is(err, errNoChange) {
		return 0, nil
	}

	return removed, err
}

// errNoChange aborts an Update whose callback found nothing to write.
var errNoChange = errors.New("auth: no change")
