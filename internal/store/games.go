package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Game describes one Source-engine game the relay can drive.
type Game struct {
	// ID is the Steam application id; it also names the userdata subdirectory.
	ID   int64
	Name string
	// Path is the game content directory that receives voice_input.wav.
	Path string
	// CfgPath is the directory the game execs scripts from.
	CfgPath     string
	UseUserdata bool
	SoundsRate  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VoiceInputPath is the file the game reads when voice_inputfromfile is on.
func (g Game) VoiceInputPath() string {
	return filepath.Join(g.Path, "voice_input.wav")
}

// RelayDir returns the directory host_writeconfig writes into for this game.
// When UseUserdata is set the game writes under the Steam userdata tree, so
// userdataPath must be provided.
func (g Game) RelayDir(userdataPath string) (string, error) {
	if !g.UseUserdata {
		return g.CfgPath, nil
	}
	if strings.TrimSpace(userdataPath) == "" {
		return "", fmt.Errorf("game %d writes its config under Steam userdata; set paths.userdata_dir", g.ID)
	}
	return filepath.Join(userdataPath, strconv.FormatInt(g.ID, 10), "local", "cfg"), nil
}

// Validate checks the fields PutGame requires.
func (g Game) Validate() error {
	switch {
	case g.ID <= 0:
		return errors.New("game id must be positive")
	case strings.TrimSpace(g.Name) == "":
		return errors.New("game name is required")
	case strings.TrimSpace(g.Path) == "":
		return errors.New("game path is required")
	case strings.TrimSpace(g.CfgPath) == "":
		return errors.New("game cfg path is required")
	case g.SoundsRate <= 0:
		return errors.New("game sounds rate must be positive")
	}
	return nil
}

const gameColumns = "id, name, path, cfg_path, use_userdata, sounds_rate, created_at, updated_at"

func scanGame(scanner interface{ Scan(dest ...any) error }) (Game, error) {
	var (
		g           Game
		useUserdata int64
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(&g.ID, &g.Name, &g.Path, &g.CfgPath, &useUserdata, &g.SoundsRate, &createdRaw, &updatedRaw); err != nil {
		return Game{}, err
	}
	g.UseUserdata = useUserdata != 0
	g.CreatedAt = parseTime(createdRaw)
	g.UpdatedAt = parseTime(updatedRaw)
	return g, nil
}

// PutGame inserts the game or replaces the stored row with the same ID.
func (s *Store) PutGame(ctx context.Context, g Game) (Game, error) {
	if err := g.Validate(); err != nil {
		return Game{}, err
	}
	now := timestamp()
	_, err := s.execWithRetry(ctx,
		`INSERT INTO games (id, name, path, cfg_path, use_userdata, sounds_rate, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name,
             path = excluded.path,
             cfg_path = excluded.cfg_path,
             use_userdata = excluded.use_userdata,
             sounds_rate = excluded.sounds_rate,
             updated_at = excluded.updated_at`,
		g.ID, g.Name, g.Path, g.CfgPath, boolToInt(g.UseUserdata), g.SoundsRate, now, now,
	)
	if err != nil {
		return Game{}, fmt.Errorf("put game %d: %w", g.ID, err)
	}
	return s.Game(ctx, g.ID)
}

// Game fetches one game by Steam app id.
func (s *Store) Game(ctx context.Context, id int64) (Game, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("get game %d: %w", id, err)
	}
	return g, nil
}

// Games lists every stored game ordered by name.
func (s *Store) Games(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+gameColumns+` FROM games ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// DeleteGame removes a game.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("game %d", id))
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
