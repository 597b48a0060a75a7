package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	FactLog    bool      `json:"fact_log"`
	FactCount  int       `json:"fact_count"`
	LastCheck  time.Time `json:"last_check"`
}
