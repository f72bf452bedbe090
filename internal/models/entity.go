package models

// Entity names a persisted record type. Teardown works on entities rather
// than raw table names so the deletion order stays a typed, testable value.
type Entity string

const (
	EntityAffiliateEntry          Entity = "affiliate_entry"
	EntityGameResult              Entity = "game_result"
	EntityGameParticipantCoinFeed Entity = "game_participant_coin_feed"
	EntityGameParticipant         Entity = "game_participant"
	EntityGameCoinFeed            Entity = "game_coin_feed"
	EntityGame                    Entity = "game"
	EntityToken                   Entity = "token"
	EntityAccount                 Entity = "account"
)

var entityTables = map[Entity]string{
	EntityAffiliateEntry:          "affiliate_entries",
	EntityGameResult:              "game_results",
	EntityGameParticipantCoinFeed: "game_participant_coin_feeds",
	EntityGameParticipant:         "game_participants",
	EntityGameCoinFeed:            "game_coin_feeds",
	EntityGame:                    "games",
	EntityToken:                   "tokens",
	EntityAccount:                 "accounts",
}

// Table returns the table backing the entity and false for unknown values.
func (e Entity) Table() (string, bool) {
	t, ok := entityTables[e]
	return t, ok
}

func (e Entity) String() string {
	return string(e)
}
