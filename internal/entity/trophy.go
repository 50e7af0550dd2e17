package entity

// Trophy is a uniquely numbered record permanently associated with the
// identity that won a game. There is no transfer operation here; ownership
// changes, if ever offered, belong to a generic token-ownership layer.
type Trophy struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
	GameID  uint64 `json:"game_id"`
}

// TrophyMetadata is the self-describing document for a minted trophy.
// It is derived purely from the token id and never stored.
type TrophyMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
