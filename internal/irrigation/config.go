package irrigation

import "time"

// DefaultStationCount is how many stations a fresh installation starts with.
const DefaultStationCount = 6

// Config is the whole station graph.
type Config struct {
	Stations map[int]*Station `json:"stations" yaml:"stations"`
}

// NewConfig returns an empty graph.
func NewConfig() *Config {
	return &Config{Stations: make(map[int]*Station)}
}

// DefaultConfig returns stations 1..n, each a DefaultStation.
func DefaultConfig(n int) *Config {
	c := NewConfig()
	for i := 1; i <= n; i++ {
		c.Stations[i] = DefaultStation(i)
	}
	return c
}

// Station looks up a station by id.
func (c *Config) Station(id int) (*Station, bool) {
	s, ok := c.Stations[id]
	return s, ok
}

// StationIDs returns the station ids in ascending order.
func (c *Config) StationIDs() []int {
	return sortedIDs(c.Stations)
}

// AddStation creates a default station under the smallest free id.
func (c *Config) AddStation() *Station {
	if c.Stations == nil {
		c.Stations = make(map[int]*Station)
	}
	s := DefaultStation(nextID(c.Stations))
	c.Stations[s.ID] = s
	return s
}

// DeleteStation removes a station; unknown ids are ignored.
func (c *Config) DeleteStation(id int) {
	delete(c.Stations, id)
}

// Status evaluates every station at the same instant t, in id order.
func (c *Config) Status(t time.Time) []StationSummary {
	out := make([]StationSummary, 0, len(c.Stations))
	for _, id := range c.StationIDs() {
		out = append(out, c.Stations[id].Status(t))
	}
	return out
}

// ActiveStations maps every station id to its verdict at t.
func (c *Config) ActiveStations(t time.Time) map[int]bool {
	out := make(map[int]bool, len(c.Stations))
	for _, s := range c.Status(t) {
		out[s.ID] = s.Active()
	}
	return out
}

// Clone returns a deep copy of the graph.
func (c *Config) Clone() *Config {
	out := NewConfig()
	for id, s := range c.Stations {
		out.Stations[id] = s.Clone()
	}
	return out
}

// Normalize fills ids from map keys and allocates missing maps, so that a
// graph decoded from any store satisfies the key == id invariant.
func (c *Config) Normalize() {
	if c.Stations == nil {
		c.Stations = make(map[int]*Station)
	}
	for id, s := range c.Stations {
		if s == nil {
			delete(c.Stations, id)
			continue
		}
		s.ID = id
		if s.Programs == nil {
			s.Programs = make(map[int]*Program)
		}
		for pid, p := range s.Programs {
			if p == nil {
				delete(s.Programs, pid)
				continue
			}
			p.ID = pid
		}
	}
}
