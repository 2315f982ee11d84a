package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	defaultAppEnv     = "local"
	defaultLogLevel   = "debug"
	defaultListenHost = ""
	defaultListenPort = "0"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, config/app.yaml and .env once, in that order,
// then applies process environment overrides for known keys.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", "config/app.yaml", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":     defaultAppEnv,
		"LOG_LEVEL":   defaultLogLevel,
		"LISTEN_HOST": defaultListenHost,
		"LISTEN_PORT": defaultListenPort,
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func LogLevel() string {
	_ = Load()
	return get("LOG_LEVEL", defaultLogLevel)
}

// ListenHost is the bind host for `liveserver serve`. Empty means all interfaces.
func ListenHost() string {
	_ = Load()
	return get("LISTEN_HOST", defaultListenHost)
}

// ListenPort is the bind port for `liveserver serve`. Zero means ephemeral.
// Unparsable values fall back to zero.
func ListenPort() int {
	_ = Load()
	port, err := strconv.Atoi(get("LISTEN_PORT", defaultListenPort))
	if err != nil || port < 0 || port > 65535 {
		return 0
	}
	return port
}

func loadFromFiles(jsonPath, yamlPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(jsonPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeYAMLConfig(yamlPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	mergeRaw(raw, out)
	return nil
}

func mergeYAMLConfig(path string, out map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	mergeRaw(raw, out)
	return nil
}

// mergeRaw copies scalar values; nested maps and lists are ignored.
func mergeRaw(raw map[string]interface{}, out map[string]string) {
	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case int, int64, float64, bool:
			s = fmt.Sprint(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func mergeEnviron(out map[string]string) {
	for key := range defaultValues() {
		if value, ok := os.LookupEnv(key); ok {
			out[key] = strings.TrimSpace(value)
		}
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
