package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	IHC            IHC            `mapstructure:",squash"`
	Pipeline       Pipeline       `mapstructure:",squash"`
	AttributionRun AttributionRun `mapstructure:",squash"`
	OpsAPIToken    string         `mapstructure:"ops_api_token"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// IHC configura o cliente da API de scoring de atribuição
type IHC struct {
	BaseURL        string        `mapstructure:"ihc_base_url"`
	APIKey         string        `mapstructure:"ihc_api_key"`
	ConvTypeID     string        `mapstructure:"ihc_conv_type_id"`
	BatchSize      int           `mapstructure:"ihc_batch_size"`
	MaxRetries     int           `mapstructure:"ihc_max_retries"`
	BackoffBase    time.Duration `mapstructure:"ihc_backoff_base"`
	BackoffCap     time.Duration `mapstructure:"ihc_backoff_cap"`
	RequestTimeout time.Duration `mapstructure:"ihc_request_timeout"`
}

// Pipeline configura o escopo e a saída de uma execução
type Pipeline struct {
	StartDate        string `mapstructure:"pipeline_start_date"`
	EndDate          string `mapstructure:"pipeline_end_date"`
	ReportOutputPath string `mapstructure:"report_output_path"`
}

// AttributionRun configura o agendador de execuções recorrentes
type AttributionRun struct {
	CronSchedule string `mapstructure:"attribution_run_cron"`
	Enabled      bool   `mapstructure:"attribution_run_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/attribution")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("IHC_BASE_URL", "https://api.ihc-attribution.com/v1/compute_ihc")
	viper.SetDefault("IHC_CONV_TYPE_ID", "data_engineering_challenge")
	viper.SetDefault("IHC_BATCH_SIZE", 200)
	viper.SetDefault("IHC_MAX_RETRIES", 3)
	viper.SetDefault("IHC_BACKOFF_BASE", "2s")
	viper.SetDefault("IHC_BACKOFF_CAP", "60s")
	viper.SetDefault("IHC_REQUEST_TIMEOUT", "30s")

	viper.SetDefault("REPORT_OUTPUT_PATH", "channel_reporting.csv")

	viper.SetDefault("ATTRIBUTION_RUN_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("ATTRIBUTION_RUN_ENABLED", false)

	viper.SetDefault("OPS_API_TOKEN", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica a configuração antes de qualquer etapa do pipeline rodar.
// Qualquer erro aqui é fatal e aborta a execução inteira.
func (c *Config) Validate() error {
	if c.IHC.APIKey == "" {
		return fmt.Errorf("erro de configuração: IHC_API_KEY é obrigatória")
	}
	if c.IHC.BatchSize <= 0 {
		return fmt.Errorf("erro de configuração: IHC_BATCH_SIZE deve ser positivo, recebido %d", c.IHC.BatchSize)
	}
	if c.IHC.MaxRetries < 0 {
		return fmt.Errorf("erro de configuração: IHC_MAX_RETRIES não pode ser negativo, recebido %d", c.IHC.MaxRetries)
	}
	if c.IHC.BackoffBase <= 0 {
		return fmt.Errorf("erro de configuração: IHC_BACKOFF_BASE deve ser positivo, recebido %s", c.IHC.BackoffBase)
	}

	start, err := parseOptionalDate(c.Pipeline.StartDate)
	if err != nil {
		return fmt.Errorf("erro de configuração: PIPELINE_START_DATE inválida: %w", err)
	}
	end, err := parseOptionalDate(c.Pipeline.EndDate)
	if err != nil {
		return fmt.Errorf("erro de configuração: PIPELINE_END_DATE inválida: %w", err)
	}
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf(
			"erro de configuração: intervalo de datas inválido (%s > %s)",
			c.Pipeline.StartDate, c.Pipeline.EndDate,
		)
	}

	return nil
}

func parseOptionalDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
