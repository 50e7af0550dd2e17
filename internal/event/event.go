package event

import "strconv"

const (
	TypeGameCreated  = "gameCreated"
	TypeGameJoined   = "gameJoined"
	TypeGameMove     = "gameMove"
	TypeGameWon      = "gameWon"
	TypeGameDraw     = "gameDraw"
	TypeTrophyMinted = "trophyMinted"
)

// Event is one discrete notification per meaningful state transition. The
// engine only ever emits events; it never reads them back.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func GameCreated(gameID uint64, creator string) Event {
	return Event{
		Type: TypeGameCreated,
		Attributes: map[string]string{
			"game_id": formatID(gameID),
			"by":      creator,
		},
	}
}

func GameJoined(gameID uint64, joiner string) Event {
	return Event{
		Type: TypeGameJoined,
		Attributes: map[string]string{
			"game_id": formatID(gameID),
			"joined":  joiner,
		},
	}
}

func GameMove(gameID uint64, player string, position int) Event {
	return Event{
		Type: TypeGameMove,
		Attributes: map[string]string{
			"game_id":  formatID(gameID),
			"move_by":  player,
			"position": strconv.Itoa(position),
		},
	}
}

func GameWon(gameID uint64, winner string) Event {
	return Event{
		Type: TypeGameWon,
		Attributes: map[string]string{
			"game_id": formatID(gameID),
			"winner":  winner,
		},
	}
}

func GameDraw(gameID uint64) Event {
	return Event{
		Type: TypeGameDraw,
		Attributes: map[string]string{
			"game_id": formatID(gameID),
		},
	}
}

func TrophyMinted(tokenID, gameID uint64, owner string) Event {
	return Event{
		Type: TypeTrophyMinted,
		Attributes: map[string]string{
			"token_id": formatID(tokenID),
			"game_id":  formatID(gameID),
			"owner":    owner,
		},
	}
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
