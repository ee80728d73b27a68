package settings

type Config struct {
	Server Server `mapstructure:"server" yaml:"server"`
	Logger Logger `mapstructure:"logger" yaml:"logger"`
	Queue  Queue  `mapstructure:"queue" yaml:"queue"`
	Kafka  Kafka  `mapstructure:"kafka" yaml:"kafka"`
}

// Server is the configuration for the server
type Server struct {
	Mode            string `mapstructure:"mode" yaml:"mode" validate:"oneof=debug release test"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port" validate:"gt=0,lte=65535"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"` // Seconds
	StatsInterval   int    `mapstructure:"stats_interval" yaml:"stats_interval" validate:"gte=0"`     // Seconds, 0 disables
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	FileLogName string `mapstructure:"file_log_name" yaml:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age" validate:"gte=0"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size" validate:"gte=0"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// Queue is the configuration for the waiting queue
type Queue struct {
	Capacity  int  `mapstructure:"capacity" yaml:"capacity" validate:"gt=0"`
	MaxKey    int  `mapstructure:"max_key" yaml:"max_key" validate:"gte=0"` // 0 means capacity
	Sparse    bool `mapstructure:"sparse" yaml:"sparse"`
	ClockStep int  `mapstructure:"clock_step" yaml:"clock_step" validate:"gte=0"` // Milliseconds, 0 reads the system clock
}

// Kafka is the configuration for Kafka
type Kafka struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Brokers      []string `mapstructure:"brokers" yaml:"brokers" validate:"required_if=Enabled true"`
	Topic        string   `mapstructure:"topic" yaml:"topic" validate:"required_if=Enabled true"`
	Timeout      int      `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`             // Seconds
	MaxRetries   int      `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`     // Number of retries
	RetryBackoff int      `mapstructure:"retry_backoff" yaml:"retry_backoff" validate:"gte=0"` // Milliseconds
}
