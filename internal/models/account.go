package models

// Account is created lazily on the first verified wallet connection.
// Address is stored lower-cased; Username is empty until the player picks one.
type Account struct {
	ID       string `db:"id"`
	Address  string `db:"address"`
	Username string `db:"username"`
}
