// Package domain contains core concepts of the owner-channel system.
// This file mirrors the directory's user record. The directory stays the
// source of truth: users are re-fetched per event, never cached here.
package domain

type User struct {
	ID           string
	Name         string // platform username, e.g. "ada.lovelace"
	DisplayName  string
	IsAdmin      bool
	IsBot        bool
	IsRestricted bool
	Deleted      bool
}

// Provisionable reports whether a directory member should receive an owner
// channel during bulk setup or an onboarding notice on join.
func (u User) Provisionable() bool {
	return !u.IsBot && !u.IsRestricted && !u.Deleted
}
