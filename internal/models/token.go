package models

// Token is a persisted Token Registry Record. Identity is the pair
// (ChainID, Address); ID is a surrogate key referenced by game tables.
// Quote, Logo and TV are empty when the catalog does not provide them.
type Token struct {
	ID       string `db:"id"`
	ChainID  int64  `db:"chain_id"`
	Address  string `db:"address"`
	Symbol   string `db:"symbol"`
	Name     string `db:"name"`
	Quote    string `db:"quote"`
	Logo     string `db:"logo"`
	TV       string `db:"tv"`
	IsActive bool   `db:"is_active"`
}
