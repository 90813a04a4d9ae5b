package database

import (
	"testing"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "tcp",
			cfg:  config.DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Pass: "pw", Name: "kilimo", SSLMode: "disable"},
			want: "host=localhost user=postgres password=pw dbname=kilimo port=5432 sslmode=disable",
		},
		{
			name: "cloud sql socket",
			cfg:  config.DatabaseConfig{User: "app", Pass: "pw", Name: "kilimo", InstanceConnectionName: "proj:africa-south1:kilimo"},
			want: "host=/cloudsql/proj:africa-south1:kilimo user=app password=pw dbname=kilimo sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
