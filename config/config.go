package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config armazena todas as configurações do aplicativo GoStore.
// É montada uma única vez no startup e injetada nas camadas que precisam dela.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr    string
	CacheTimeout time.Duration
	CacheTTL     time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Integração Square: ID da loja local -> ID da location no Square.
	SquareLocations SquareLocationMap
}

// SquareLocationMap mapeia o ID de uma loja (store location) para o ID correspondente no Square.
type SquareLocationMap map[string]string

// Lookup retorna o ID Square da loja, se configurado.
func (m SquareLocationMap) Lookup(locationID string) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m[locationID]
	return id, ok
}

// squareLocationFile é o formato do arquivo YAML apontado por SQUARE_LOCATION_FILE.
//
//	locations:
//	  <location-id>:
//	    square_location_id: L8XYZ...
type squareLocationFile struct {
	Locations map[string]struct {
		SquareLocationID string `yaml:"square_location_id"`
	} `yaml:"locations"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Retorna erro se uma variável obrigatória estiver ausente.
func LoadConfig() (*Config, error) {
	databaseURL, err := mustGetEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := mustGetEnv("JWT_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL: databaseURL,
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,
		CacheTTL:     getDurationEnv("CACHE_TTL_MIN", 5) * time.Minute,

		// 4. Segurança (JWT)
		JWTSecretKey: jwtSecret,
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	// 6. Square: arquivo YAML primeiro, variável de ambiente sobrescreve por chave.
	cfg.SquareLocations = SquareLocationMap{}
	if path := getEnv("SQUARE_LOCATION_FILE", ""); path != "" {
		fromFile, err := LoadSquareLocationFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			cfg.SquareLocations[k] = v
		}
	}
	for k, v := range ParseSquareLocationMap(getEnv("SQUARE_LOCATION_MAP", "")) {
		cfg.SquareLocations[k] = v
	}

	return cfg, nil
}

// ParseSquareLocationMap interpreta "loc-1=SQ1,loc-2=SQ2". Pares malformados são ignorados.
func ParseSquareLocationMap(raw string) SquareLocationMap {
	out := SquareLocationMap{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			log.Printf("⚠️ Aviso: par inválido em SQUARE_LOCATION_MAP ignorado: '%s'", pair)
			continue
		}
		out[key] = value
	}
	return out
}

// LoadSquareLocationFile lê o mapeamento de lojas do Square a partir de um arquivo YAML.
func LoadSquareLocationFile(path string) (SquareLocationMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	var file squareLocationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("falha ao interpretar YAML de %s: %w", path, err)
	}

	out := SquareLocationMap{}
	for locationID, entry := range file.Locations {
		if entry.SquareLocationID != "" {
			out[locationID] = entry.SquareLocationID
		}
	}
	return out, nil
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente obrigatória.
func mustGetEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("erro de configuração: a variável de ambiente %s deve ser definida", key)
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
