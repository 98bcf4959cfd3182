package command

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sandertv/gophertunnel/minecraft/text"
)

// Help lists the commands available to the issuer: enabled ones the
// issuer's rank may run. Disabled commands are omitted entirely so they do
// not leak their existence.
func Help(inv Invocation, args []string, deps Deps) {
	_ = args

	defs := lo.Filter(deps.Definitions(), func(def Definition, _ int) bool {
		if !deps.Enabled(def.Name) {
			return false
		}
		return inv.Player == nil || inv.Player.Rank().AtLeast(def.Rank)
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	lines := make([]string, 0, len(defs)+1)
	lines = append(lines, text.Colourf("<yellow>Available commands:</yellow>"))
	for _, def := range defs {
		lines = append(lines, text.Colourf("<grey>%s%s</grey> - %s", deps.Prefix, def.Syntax, def.Description))
	}
	inv.Respond(deps.Log, strings.Join(lines, "\n"))
}
