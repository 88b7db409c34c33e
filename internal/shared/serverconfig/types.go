package serverconfig

import "NavalWar/internal/shared/config"

type Config struct {
	Log         config.LogConfig  `yaml:"log" mapstructure:"log"`
	HTTPServer  HTTPServerConfig  `yaml:"httpserver" mapstructure:"httpserver"`
	World       WorldConfig       `yaml:"world" mapstructure:"world"`
	Persistence PersistenceConfig `yaml:"persistence" mapstructure:"persistence"`
	MySQL       MySQLConfig       `yaml:"mysql" mapstructure:"mysql"`
	MongoDB     MongoDBConfig     `yaml:"mongodb" mapstructure:"mongodb"`
	SQLite      SQLiteConfig      `yaml:"sqlite" mapstructure:"sqlite"`
	Trace       TraceConfig       `yaml:"trace" mapstructure:"trace"`
	JWTSecret   string            `yaml:"jwt_secret" mapstructure:"jwt_secret" env:"JWT_SECRET"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host" env:"NAVALWAR_HTTP_HOST"`
	Port int    `yaml:"port" mapstructure:"port" env:"NAVALWAR_HTTP_PORT"`
	// NeedSecret 为 true 时 ws 帧走握手密钥加密。
	NeedSecret bool `yaml:"need_secret" mapstructure:"need_secret"`
	// BotKey 机器人进程申请令牌用，为空则不发放机器人令牌。
	BotKey string `yaml:"bot_key" mapstructure:"bot_key" env:"NAVALWAR_BOT_KEY"`
}

type WorldConfig struct {
	Radius       float64 `yaml:"radius" mapstructure:"radius"`
	MaxEntities  int     `yaml:"max_entities" mapstructure:"max_entities"`
	TickMillis   int     `yaml:"tick_ms" mapstructure:"tick_ms"`
	FlushMillis  int     `yaml:"flush_ms" mapstructure:"flush_ms"`
	AskTimeoutMs int     `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
	// NodeID 游客 id 生成器的节点号，多实例共用一个库时各不相同。
	NodeID int64 `yaml:"node_id" mapstructure:"node_id" env:"NAVALWAR_NODE_ID"`
}

// PersistenceConfig Driver: memory / mongodb / mysql / sqlite。
type PersistenceConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver" env:"NAVALWAR_PERSISTENCE_DRIVER"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password" env:"NAVALWAR_MYSQL_PASSWORD"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	// SlowMs 慢查询阈值，gorm 日志用。
	SlowMs int `yaml:"slow_ms" mapstructure:"slow_ms"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri" env:"NAVALWAR_MONGODB_URI"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path" env:"NAVALWAR_SQLITE_PATH"`
}

// TraceConfig Endpoint 为空时不启用 OpenTelemetry 导出。
type TraceConfig struct {
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint" env:"NAVALWAR_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}
