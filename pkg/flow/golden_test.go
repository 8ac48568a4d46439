package flow

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestFixedTexts(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	g.Assert(t, "help", []byte(HelpMessage))
	g.Assert(t, "edit_menu", []byte(EditMenu))
}
