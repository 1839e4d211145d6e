package models

// User is a document in the Users collection.
type User struct {
	Ident     `bson:",inline"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Password  string `bson:"password"` // bcrypt digest, never exposed
	Avatar    string `bson:"avatar,omitempty"`
	AvatarKey string `bson:"avatarKey,omitempty"`
}

// SignUpInput carries the signUp mutation arguments.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Avatar   *string
}

// AuthUser is returned by signUp and signIn.
type AuthUser struct {
	User  *User
	Token string
}
