package model

import "time"

type User struct {
	UserID    string    `firestore:"userid,omitempty"`
	Email     string    `firestore:"email,omitempty"`
	Password  string    `firestore:"password,omitempty"`
	Active    string    `firestore:"active,omitempty"` // "1" active, "2" deleted
	CreatedAt time.Time `firestore:"createdat,omitempty"`
}
