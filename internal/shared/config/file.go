package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the environment keys for deployments that prefer a file.
type fileConfig struct {
	Port            string              `yaml:"port"`
	Env             string              `yaml:"env"`
	CORSAllowOrigin string              `yaml:"cors_allow_origins"`
	DatabaseURL     string              `yaml:"database_url"`
	ObjectStore     string              `yaml:"object_store"`
	LocalStoreDir   string              `yaml:"local_store_dir"`
	AWSRegion       string              `yaml:"aws_region"`
	S3Bucket        string              `yaml:"s3_bucket"`
	S3Prefix        string              `yaml:"s3_prefix"`
	LogLevel        string              `yaml:"log_level"`
	RedisAddr       string              `yaml:"redis_addr"`
	SQSQueueURL     string              `yaml:"sqs_queue_url"`
	LLM             fileLLM             `yaml:"llm"`
	Ingest          fileIngest          `yaml:"ingest"`
	Columns         map[string][]string `yaml:"columns"`
}

type fileLLM struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RequestsPerMin int    `yaml:"requests_per_minute"`
}

type fileIngest struct {
	Concurrency int  `yaml:"concurrency"`
	OnStart     bool `yaml:"on_start"`
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// applyDefaults exports file values as environment defaults.
func (fc fileConfig) applyDefaults() {
	setDefault("PORT", fc.Port)
	setDefault("ENV", fc.Env)
	setDefault("CORS_ALLOW_ORIGINS", fc.CORSAllowOrigin)
	setDefault("DATABASE_URL", fc.DatabaseURL)
	setDefault("OBJECT_STORE", fc.ObjectStore)
	setDefault("LOCAL_STORE_DIR", fc.LocalStoreDir)
	setDefault("AWS_REGION", fc.AWSRegion)
	setDefault("S3_BUCKET", fc.S3Bucket)
	setDefault("S3_PREFIX", fc.S3Prefix)
	setDefault("LOG_LEVEL", fc.LogLevel)
	setDefault("REDIS_ADDR", fc.RedisAddr)
	setDefault("SQS_QUEUE_URL", fc.SQSQueueURL)
	setDefault("LLM_PROVIDER", fc.LLM.Provider)
	setDefault("LLM_MODEL", fc.LLM.Model)
	setDefault("LLM_BASE_URL", fc.LLM.BaseURL)
	if fc.LLM.TimeoutSeconds > 0 {
		setDefault("LLM_TIMEOUT_SECONDS", strconv.Itoa(fc.LLM.TimeoutSeconds))
	}
	if fc.LLM.RequestsPerMin > 0 {
		setDefault("LLM_RPM", strconv.Itoa(fc.LLM.RequestsPerMin))
	}
	if fc.Ingest.Concurrency > 0 {
		setDefault("INGEST_CONCURRENCY", strconv.Itoa(fc.Ingest.Concurrency))
	}
	if fc.Ingest.OnStart {
		setDefault("INGEST_ON_START", "true")
	}
}

func setDefault(key, val string) {
	if val == "" {
		return
	}
	if _, ok := os.LookupEnv(key); ok {
		return
	}
	os.Setenv(key, val)
}
