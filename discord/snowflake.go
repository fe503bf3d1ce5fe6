package discord

import (
	"strconv"
	"strings"
	"time"
)

// Snowflake is a Discord entity ID. It is a 64-bit unsigned integer that is
// transported as a decimal string on the wire.
type Snowflake uint64

// NullSnowflake marks an absent ID. It gets encoded into a JSON null.
const NullSnowflake Snowflake = 0

func ParseSnowflake(sf string) (Snowflake, error) {
	i, err := strconv.ParseUint(sf, 10, 64)
	if err != nil {
		return 0, err
	}

	return Snowflake(i), nil
}

func (s *Snowflake) UnmarshalJSON(v []byte) error {
	id := strings.Trim(string(v), `"`)
	if id == "null" {
		*s = NullSnowflake
		return nil
	}

	i, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return err
	}

	*s = Snowflake(i)
	return nil
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	if s == NullSnowflake {
		return []byte("null"), nil
	}

	return []byte(`"` + strconv.FormatUint(uint64(s), 10) + `"`), nil
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (s Snowflake) Valid() bool {
	return s != NullSnowflake
}

// Milliseconds is a duration transported as an integer millisecond count.
type Milliseconds uint64

func (ms Milliseconds) Duration() time.Duration {
	return time.Duration(ms) * time.Millisecond
}
