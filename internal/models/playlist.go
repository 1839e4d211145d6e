package models

import "time"

// Song is a document in the Songs collection. A copy of it is embedded in
// every playlist it is added to.
type Song struct {
	Ident     `bson:",inline"`
	Name      string `bson:"name"`
	URI       string `bson:"URI"`
	ObjectKey string `bson:"objectKey,omitempty"`
}

// PlayList is a document in the PlayLists collection.
type PlayList struct {
	Ident     `bson:",inline"`
	AuthorID  string    `bson:"authorId"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"createdAt"`
	SongArr   []Song    `bson:"songArr,omitempty"`
}
