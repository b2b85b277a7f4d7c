package models

import "time"

// Reply is a forum reply embedded in its parent comment's replies array.
// Replies are append-only; there is no edit or delete path.
type Reply struct {
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName" firestore:"authorName"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// Comment is a forum comment stored in the "comments" subcollection of a
// campaign document. The document ID is auto-generated.
type Comment struct {
	ID         string    `json:"id" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName" firestore:"authorName"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	Replies    []Reply   `json:"replies" firestore:"replies"`
}
