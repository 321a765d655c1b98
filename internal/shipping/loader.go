package shipping

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for zone tables on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based zone table loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "zone-loader").Logger(),
	}
}

// Load reads a YAML zone table from filePath.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading zone table")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open zone table")
		return nil, fmt.Errorf("failed to open zone table %s: %w", filePath, err)
	}
	defer file.Close()

	table, err := decodeTable(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("invalid zone table")
		return nil, fmt.Errorf("zone table %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("zones", len(table)).
		Msg("zone table loaded successfully")

	return table, nil
}
