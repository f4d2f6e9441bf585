package monitor

import "time"

type Status struct {
	Services   map[string]bool `json:"services"`
	BufferSize int             `json:"buffer_size"`
	LastCheck  time.Time       `json:"last_check"`
}

// Healthy is true when every registered dependency answered.
func (s Status) Healthy() bool {
	for _, up := range s.Services {
		if !up {
			return false
		}
	}
	return true
}

func (s Status) clone() Status {
	out := s
	out.Services = make(map[string]bool, len(s.Services))
	for k, v := range s.Services {
		out.Services[k] = v
	}
	return out
}
