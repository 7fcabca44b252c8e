// fixture.go — JSON fixture decoding for replay universes.
//
// Fixtures are plain arrays of pool specs; decoding runs once at startup
// through sonnet, the same codec the harvesting pipeline uses.

package feedsim

import (
	"errors"

	"github.com/sugawarayuuta/sonnet"
)

// ErrBadFixture wraps malformed fixture content.
var ErrBadFixture = errors.New("feedsim: malformed fixture")

// LoadFixture decodes a JSON array of pool specs.
func LoadFixture(data []byte) ([]PoolSpec, error) {
	var specs []PoolSpec
	if err := sonnet.Unmarshal(data, &specs); err != nil {
		return nil, errors.Join(ErrBadFixture, err)
	}
	for i := range specs {
		if specs[i].Address == "" || specs[i].Token0 == "" || specs[i].Token1 == "" {
			return nil, ErrBadFixture
		}
	}
	return specs, nil
}
