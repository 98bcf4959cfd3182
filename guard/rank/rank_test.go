package rank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
)

func TestAtLeast(t *testing.T) {
	// Lower values carry more privilege.
	assert.True(t, rank.Owner.AtLeast(rank.Admin))
	assert.True(t, rank.Admin.AtLeast(rank.Admin))
	assert.True(t, rank.Moderator.AtLeast(rank.Member))
	assert.False(t, rank.Member.AtLeast(rank.Moderator))
	assert.False(t, rank.Moderator.AtLeast(rank.Admin))
}

func TestParse(t *testing.T) {
	for name, want := range map[string]rank.Rank{
		"owner":     rank.Owner,
		"Admin":     rank.Admin,
		"MODERATOR": rank.Moderator,
		"mod":       rank.Moderator,
		"member":    rank.Member,
		"":          rank.Member,
	} {
		r, err := rank.Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, r, name)
	}

	_, err := rank.Parse("wizard")
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Owner", rank.Owner.Name())
	assert.Equal(t, "Member", rank.Member.Name())
}
