// Package trophy generates the self-describing metadata document for a
// minted trophy. The document is a pure function of the token id: it embeds
// the id in the name, carries a fixed description, and inlines a deterministic
// SVG image through the codec package. Regenerating it for the same id always
// yields byte-identical output.
package trophy

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/codec"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const description = "A trophy awarded for winning a game of ledger tic-tac-toe."

// Describe builds the metadata document for the given token id. It does not
// consult the owner or any game history.
func Describe(tokenID uint64) entity.TrophyMetadata {
	return entity.TrophyMetadata{
		Name:        fmt.Sprintf("Tic-Tac-Toe Trophy #%d", tokenID),
		Description: description,
		Image:       "data:image/svg+xml;base64," + codec.Encode([]byte(ImageMarkup(tokenID))),
	}
}

// ImageMarkup renders the trophy image as self-contained SVG markup.
func ImageMarkup(tokenID uint64) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="350" height="350">` +
		`<rect width="100%" height="100%" fill="#1a1a2e"/>` +
		`<text x="50%" y="42%" dominant-baseline="middle" text-anchor="middle" fill="#e9c46a" font-size="28">Tic-Tac-Toe Champion</text>` +
		fmt.Sprintf(`<text x="50%%" y="58%%" dominant-baseline="middle" text-anchor="middle" fill="#f4f1de" font-size="22">Trophy #%d</text>`, tokenID) +
		`</svg>`
}
