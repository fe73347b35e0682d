package configuration

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xyproto/env/v2"
)

// EnvPrefix starts the name of every environment override. The full name
// is ENGLANG_<SECTION>_<KEY> in upper case.
const EnvPrefix = "ENGLANG"

// LocalConfigName is read after the main file and overrides its values.
const LocalConfigName = "settings.local.cfg"

// sectionOrder fixes the layout of written files.
var sectionOrder = []string{"Interpreter", "Server", "JWT", "Users", "Database", "Debug"}

// Config holds INI style settings grouped by section.
type Config struct {
	settings map[string]map[string]string
	filePath string
	mu       sync.RWMutex
}

var (
	globalConfig *Config
	once         sync.Once
)

// Initialize loads the global configuration from configPath. A missing
// file leaves the built-in defaults in effect; nothing is written. A
// settings.local.cfg next to the file overrides individual keys.
func Initialize(configPath string) error {
	var err error
	once.Do(func() {
		var cfg *Config
		cfg, err = loadConfig(configPath)
		if err != nil {
			return
		}
		localPath := filepath.Join(filepath.Dir(configPath), LocalConfigName)
		if _, statErr := os.Stat(localPath); statErr == nil {
			if err = cfg.mergeFile(localPath); err != nil {
				return
			}
		}
		globalConfig = cfg
	})
	return err
}

// loadConfig reads filePath on top of the defaults.
func loadConfig(filePath string) (*Config, error) {
	config := newDefaultConfig(filePath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return config, nil
	}
	if err := config.mergeFile(filePath); err != nil {
		return nil, err
	}
	return config, nil
}

func newDefaultConfig(filePath string) *Config {
	config := &Config{
		settings: make(map[string]map[string]string),
		filePath: filePath,
	}
	config.createDefaultConfig()
	return config
}

// mergeFile overlays the settings of an INI file.
func (c *Config) mergeFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	return c.merge(file)
}

// merge parses `[Section]` headers and `key = value` lines. Blank lines and
// lines starting with ';' or '#' are ignored.
func (c *Config) merge(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	scanner := bufio.NewScanner(r)
	currentSection := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = line[1 : len(line)-1]
			if c.settings[currentSection] == nil {
				c.settings[currentSection] = make(map[string]string)
			}
			continue
		}

		if strings.Contains(line, "=") && currentSection != "" {
			parts := strings.SplitN(line, "=", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			c.settings[currentSection][key] = value
		}
	}
	return scanner.Err()
}

// createDefaultConfig fills in every key the program reads.
func (c *Config) createDefaultConfig() {
	c.settings["Interpreter"] = map[string]string{
		"max_variables":    "512",
		"max_arrays":       "64",
		"max_array_size":   "1024",
		"stack_size":       "512",
		"memory_size":      "1024",
		"max_functions":    "256",
		"max_depth":        "1000",
		"max_steps":        "0",
		"count_for_blocks": "true",
	}

	c.settings["Server"] = map[string]string{
		"listen_address":      ":8080",
		"require_auth":        "false",
		"run_timeout":         "5m",
		"max_steps":           "10000000",
		"pong_timeout":        "60s",
		"write_wait_timeout":  "10s",
		"max_message_size_kb": "64",
		"max_channel_buffer":  "1000",
		"allowed_origins":     "*",
		"cert_file":           "",
		"key_file":            "",
	}

	c.settings["JWT"] = map[string]string{
		"secret_key":     "",
		"token_lifetime": "24h",
		"issuer":         "englang",
	}

	// username = bcrypt hash, see the -hash-password flag
	c.settings["Users"] = map[string]string{}

	c.settings["Database"] = map[string]string{
		"path": "englang.db",
	}

	c.settings["Debug"] = map[string]string{
		"enable_debug_logging": "false",
		"log_level":            "INFO",
		"log_file":             "englang.log",
		"max_log_size_mb":      "10",
		"log_rotation_count":   "3",
		"log_interpreter":      "false",
		"log_loader":           "false",
		"log_terminal":         "true",
		"log_websocket":        "false",
		"log_auth":             "true",
		"log_database":         "false",
		"log_session":          "false",
		"log_config":           "true",
		"log_general":          "true",
	}
}

// write renders the configuration in INI form with sorted keys.
func (c *Config) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "; englang configuration file")
	fmt.Fprintln(bw, "; values can be overridden with ENGLANG_<SECTION>_<KEY> environment variables")
	fmt.Fprintln(bw, ";")
	fmt.Fprintln(bw)

	sections := append([]string(nil), sectionOrder...)
	for name := range c.settings {
		if !contains(sectionOrder, name) {
			sections = append(sections, name)
		}
	}
	sort.Strings(sections[len(sectionOrder):])

	for _, section := range sections {
		settings, exists := c.settings[section]
		if !exists {
			continue
		}
		fmt.Fprintf(bw, "[%s]\n", section)
		keys := make([]string, 0, len(settings))
		for key := range settings {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(bw, "%s = %s\n", key, settings[key])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func (c *Config) saveToFile() error {
	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	file, err := os.Create(c.filePath)
	if err != nil {
		return err
	}
	if err := c.write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteDefaults writes the built-in defaults to path.
func WriteDefaults(path string) error {
	return newDefaultConfig(path).saveToFile()
}

// EnvName returns the environment variable that overrides section/key.
func EnvName(section, key string) string {
	return strings.ToUpper(EnvPrefix + "_" + section + "_" + key)
}

// GetString returns a setting. The environment wins over the file, the
// file over defaultValue.
func GetString(section, key, defaultValue string) string {
	if name := EnvName(section, key); env.Has(name) {
		return env.Str(name, defaultValue)
	}
	if globalConfig == nil {
		return defaultValue
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	if sectionMap, exists := globalConfig.settings[section]; exists {
		if value, exists := sectionMap[key]; exists {
			return value
		}
	}
	return defaultValue
}

// GetInt returns an integer setting.
func GetInt(section, key string, defaultValue int) int {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(str); err == nil {
		return value
	}
	return defaultValue
}

// GetBool returns a boolean setting.
func GetBool(section, key string, defaultValue bool) bool {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(str); err == nil {
		return value
	}
	return defaultValue
}

// GetDuration returns a duration setting such as "30s".
func GetDuration(section, key string, defaultValue time.Duration) time.Duration {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(str); err == nil {
		return value
	}
	return defaultValue
}

// GetSection returns a copy of all key-value pairs of a section.
func GetSection(sectionName string) map[string]string {
	result := make(map[string]string)
	if globalConfig == nil {
		return result
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	for key, value := range globalConfig.settings[sectionName] {
		result[key] = value
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
