// Package guard wires the moderation layer into a dragonfly server.
package guard

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/df-mc/dragonfly/server"
	"github.com/restartfu/gophig"
	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/automod"
)

// Config holds the server configuration: command surface, staff ranks,
// automod profiles and service settings.
type Config struct {
	Guard struct {
		SentryDsn     string
		LogLevel      string // Can be "debug", "info", "warn", "error"
		StoragePath   string
		CommandPrefix string
	}
	Command struct {
		// Aliases maps alternative command names to command names.
		Aliases map[string]string
		// Overrides enables or disables commands per installation,
		// winning over the compiled-in default.
		Overrides map[string]bool
	}
	Staff struct {
		// Ranks maps player XUIDs to rank names ("owner", "admin",
		// "moderator"); everyone else is a member.
		Ranks map[string]string
		// Watched lists XUIDs of admins whose commands are traced.
		Watched []string
	}
	Service struct {
		APIAddress string
		APIKey     string

		ModerationURL string
		ModerationKey string
	}
	AutoMod struct {
		Profiles automod.ProfileTable
	}
	server.UserConfig
}

// DefaultConfig returns a config with prefilled default values.
func DefaultConfig() Config {
	c := Config{}

	c.Guard.SentryDsn = ""
	c.Guard.LogLevel = "info" // Default to info level in production
	c.Guard.StoragePath = "resources/moderation_db"
	c.Guard.CommandPrefix = "-"

	c.Command.Aliases = map[string]string{
		"b": "ban",
		"k": "kick",
		"h": "help",
	}
	c.Command.Overrides = map[string]bool{}

	c.Staff.Ranks = map[string]string{}
	c.Staff.Watched = []string{}

	c.Service.APIAddress = ":8080"
	c.Service.APIKey = "secret-key"
	c.Service.ModerationURL = ""
	c.Service.ModerationKey = "secret-key"

	c.AutoMod.Profiles = automod.ProfileTable{
		"fly": {
			Enabled: true,
			Flag:    &automod.FlagAction{Reason: "{playerName} failed {checkType}. ({detailsString})"},
			Log:     &automod.LogAction{},
			NotifyAdmins: &automod.NotifyAction{
				Message: "{playerName} was detected flying. ({detailsString})",
			},
		},
		"speed": {
			Enabled: true,
			Flag:    &automod.FlagAction{Reason: "{playerName} moved too fast. ({detailsString})"},
			Log:     &automod.LogAction{},
		},
		"illegal_item": {
			Enabled: true,
			Flag:    &automod.FlagAction{Increment: 2, Reason: "{playerName} held an illegal item: {itemTypeId}"},
			Log:     &automod.LogAction{DetailsPrefix: "item check: "},
			NotifyAdmins: &automod.NotifyAction{
				Message: "{playerName} was caught with {itemTypeId}.",
			},
		},
	}

	userConfig := server.DefaultConfig()
	userConfig.Server.Name = text.Colourf("<red>Poke</red><aqua>Bedrock</aqua>")
	userConfig.World.Folder = "resources/world"
	userConfig.Players.Folder = "resources/player_data"

	c.UserConfig = userConfig

	return c
}

// ParseLogLevel returns the appropriate slog.Level based on string configuration.
// Returns an error if the provided log level string is not recognized.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unrecognized log level: %q", level)
	}
}

// ReadConfig loads the server configuration from config.toml.
// If the file doesn't exist, it creates a new one with default values.
// Returns the loaded configuration and any error encountered.
func ReadConfig() (Config, error) {
	g := gophig.NewGophig[Config]("./config.toml", gophig.TOMLMarshaler{}, os.ModePerm)
	_, err := g.LoadConf()
	if os.IsNotExist(err) {
		err = g.SaveConf(DefaultConfig())
		if err != nil {
			return Config{}, err
		}
	}
	c, err := g.LoadConf()
	if err != nil {
		return Config{}, err
	}
	if err = c.AutoMod.Profiles.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
