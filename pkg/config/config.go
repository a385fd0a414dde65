package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env).
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Store StoreConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor del catálogo administrativo.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig configuración del record store.
type StoreConfig struct {
	// SnapshotPath archivo JSON donde persiste el estado (esquema, registros,
	// journal). Vacío = store efímero en memoria.
	SnapshotPath string
	// MigrateOnStart aplica la cadena completa de migraciones al arrancar la
	// API (el CLI de migraciones es el camino sancionado; esto es comodidad
	// para desarrollo).
	MigrateOnStart bool
}

// Load lee la configuración desde variables de entorno, con un archivo .env
// opcional. Las env vars tienen prioridad. Nombres esperados: APP_ENV,
// HTTP_PORT, STORE_SNAPSHOT_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "catalogo-inventario")
	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("STORE_SNAPSHOT_PATH", "data/catalog.json")
	v.SetDefault("STORE_MIGRATE_ON_START", true)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("APP_LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Store: StoreConfig{
			SnapshotPath:   v.GetString("STORE_SNAPSHOT_PATH"),
			MigrateOnStart: v.GetBool("STORE_MIGRATE_ON_START"),
		},
	}
	return cfg, nil
}
