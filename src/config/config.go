package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AirlinesEDA/src/storage"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// 图表输出方式
const (
	ChartModeFile        = "file"        // 每张图写入chart_dir
	ChartModeInteractive = "interactive" // 写入临时目录后用系统查看器打开
	ChartModeNone        = "none"        // 不生成图表
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	InputPath      string `json:"input_path" yaml:"input_path" toml:"input_path"`                   // 输入CSV路径
	OutputPath     string `json:"output_path" yaml:"output_path" toml:"output_path"`                // 清洗后CSV路径
	XLSXOutputPath string `json:"xlsx_output_path" yaml:"xlsx_output_path" toml:"xlsx_output_path"` // 可选，额外导出xlsx
	SheetName      string `json:"sheet_name" yaml:"sheet_name" toml:"sheet_name"`                   // 输入为xlsx时读取的工作表

	ChartMode     string `json:"chart_mode" yaml:"chart_mode" toml:"chart_mode"`
	ChartDir      string `json:"chart_dir" yaml:"chart_dir" toml:"chart_dir"`
	HistogramBins int    `json:"histogram_bins" yaml:"histogram_bins" toml:"histogram_bins"`

	LogName     string `json:"log_name" yaml:"log_name" toml:"log_name"` // 为空时输出到stderr
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`
	MetricsPath string `json:"metrics_path" yaml:"metrics_path" toml:"metrics_path"` // Prometheus textfile，为空时不写
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		InputPath:     "airlines_flights_data.csv",
		OutputPath:    "cleaned_airlines_data.csv",
		SheetName:     "Sheet1",
		ChartMode:     ChartModeFile,
		ChartDir:      "charts",
		HistogramBins: 30,
		LogLevel:      "info",
	}
}

// LoadConfig 读取配置文件，根据扩展名选择json/yaml/toml。
// path为空时返回默认配置；文件中未出现的字段保留默认值。
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := parseConfig(path, data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("解析Config失败: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("解析Config失败: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("解析Config失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的配置文件格式: %q", ext)
	}
	return nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, fmt.Errorf("input_path 不能为空"))
	}
	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("output_path 不能为空"))
	}

	switch c.ChartMode {
	case ChartModeFile, ChartModeInteractive, ChartModeNone:
	default:
		errs = append(errs, fmt.Errorf("未知的 chart_mode: %q", c.ChartMode))
	}
	if c.ChartMode == ChartModeFile && c.ChartDir == "" {
		errs = append(errs, fmt.Errorf("chart_mode=file 时 chart_dir 不能为空"))
	}
	if c.HistogramBins <= 0 {
		errs = append(errs, fmt.Errorf("histogram_bins 必须为正数: %d", c.HistogramBins))
	}

	if _, err := storage.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("未知的 log_level: %q", c.LogLevel))
	}

	return combineErrors(errs)
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置校验遇到错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}
