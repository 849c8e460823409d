package richtext

import (
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

var (
	ErrDefaultLocaleRequired    = runtimeconfig.ErrDefaultLocaleRequired
	ErrMarkdownPatternInvalid   = runtimeconfig.ErrMarkdownPatternInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrCommandTimeoutInvalid    = runtimeconfig.ErrCommandTimeoutInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	RichTextConfig       = runtimeconfig.RichTextConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns defaults suited to offline conversion runs.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

func loggerFor(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		return logging.ModuleLogger(provider, "")
	}
	return logging.ModuleLogger(provider, "richtext."+module)
}
