package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Service  ServiceConfig  `koanf:"service"`
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	Cart     CartConfig     `koanf:"cart"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Shutdown ShutdownConfig `koanf:"shutdown"`
}

type ServiceConfig struct {
	Name string `koanf:"name" validate:"required"`
	Env  string `koanf:"env" validate:"required"`
}

type HTTPConfig struct {
	Port    int `koanf:"port" validate:"min=1,max=65535"`
	Timeout struct {
		Read   time.Duration `koanf:"read" validate:"gt=0"`
		Write  time.Duration `koanf:"write" validate:"gt=0"`
		Idle   time.Duration `koanf:"idle" validate:"gt=0"`
		Header time.Duration `koanf:"header" validate:"gt=0"`
	} `koanf:"timeout"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	// File duplicates logs to a local file when set.
	File string `koanf:"file"`
}

type CartConfig struct {
	// Continue is where "continue shopping" sends the browser.
	Continue string `koanf:"continue" validate:"required"`
	Cookie   string `koanf:"cookie" validate:"required"`
	Session  struct {
		// TTL is how long a cart survives without a request.
		TTL   time.Duration `koanf:"ttl" validate:"gt=0"`
		Sweep time.Duration `koanf:"sweep" validate:"gt=0"`
	} `koanf:"session"`
}

type CatalogConfig struct {
	File string `koanf:"file"`
}

type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Addr is the listen address of the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Service ---\n")
	b.WriteString(fmt.Sprintf("  service.name: %s\n", c.Service.Name))
	b.WriteString(fmt.Sprintf("  service.env: %s\n", c.Service.Env))

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  http.port: %d\n", c.HTTP.Port))
	b.WriteString(fmt.Sprintf("  http.timeout.read: %v\n", c.HTTP.Timeout.Read))
	b.WriteString(fmt.Sprintf("  http.timeout.write: %v\n", c.HTTP.Timeout.Write))
	b.WriteString(fmt.Sprintf("  http.timeout.idle: %v\n", c.HTTP.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  http.timeout.header: %v\n", c.HTTP.Timeout.Header))

	b.WriteString("\n--- Cart ---\n")
	b.WriteString(fmt.Sprintf("  cart.continue: %s\n", c.Cart.Continue))
	b.WriteString(fmt.Sprintf("  cart.cookie: %s\n", c.Cart.Cookie))
	b.WriteString(fmt.Sprintf("  cart.session.ttl: %v\n", c.Cart.Session.TTL))
	b.WriteString(fmt.Sprintf("  cart.session.sweep: %v\n", c.Cart.Session.Sweep))
	b.WriteString(fmt.Sprintf("  catalog.file: %s\n", c.Catalog.File))

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  log.file: %s\n", c.Log.File))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}
