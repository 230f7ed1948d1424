// Package content загружает статический контент: описания команд клуба и информацию о клубе.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrNoTeams возвращается когда в файле контента нет ни одной команды
var ErrNoTeams = errors.New("content has no teams")

// Team описание команды клуба с правилами для кандидатов
type Team struct {
	Name        string   `koanf:"name" json:"name"`
	Description string   `koanf:"description" json:"description"`
	Guidelines  []string `koanf:"guidelines" json:"guidelines"`
}

// Executive член правления клуба
type Executive struct {
	Name string `koanf:"name" json:"name"`
	Role string `koanf:"role" json:"role"`
	Bio  string `koanf:"bio" json:"bio,omitempty"`
}

// Circle общая информация о клубе
type Circle struct {
	Name       string      `koanf:"name" json:"name"`
	About      string      `koanf:"about" json:"about"`
	Notice     string      `koanf:"notice" json:"notice,omitempty"`
	Contact    string      `koanf:"contact" json:"contact,omitempty"`
	Executives []Executive `koanf:"executives" json:"executives"`
}

// Store неизменяемый набор контента, загружается один раз при старте
type Store struct {
	circle Circle
	teams  []Team
	byName map[string]int
}

type document struct {
	Circle Circle `koanf:"circle"`
	Teams  []Team `koanf:"teams"`
}

// Load читает YAML файл контента (JSON также подходит)
func Load(path string) (*Store, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load content %s: %w", path, err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Store, error) {
	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return NewStore(doc.Circle, doc.Teams)
}

// NewStore создает Store из готовых данных, сохраняя порядок команд
func NewStore(circle Circle, teams []Team) (*Store, error) {
	s := &Store{circle: circle, byName: make(map[string]int, len(teams))}
	for _, t := range teams {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, errors.New("team name must not be empty")
		}
		if _, dup := s.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate team %q", t.Name)
		}
		s.byName[t.Name] = len(s.teams)
		s.teams = append(s.teams, t)
	}
	if len(s.teams) == 0 {
		return nil, ErrNoTeams
	}
	return s, nil
}

// Circle возвращает информацию о клубе
func (s *Store) Circle() Circle {
	return s.circle
}

// Teams возвращает команды в порядке из файла
func (s *Store) Teams() []Team {
	out := make([]Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// TeamNames возвращает названия команд для выбора
func (s *Store) TeamNames() []string {
	names := make([]string, len(s.teams))
	for i, t := range s.teams {
		names[i] = t.Name
	}
	return names
}

// Team возвращает команду по названию
func (s *Store) Team(name string) (Team, bool) {
	i, ok := s.byName[strings.TrimSpace(name)]
	if !ok {
		return Team{}, false
	}
	return s.teams[i], true
}

// HasTeam проверяет, что команда существует
func (s *Store) HasTeam(name string) bool {
	_, ok := s.Team(name)
	return ok
}
