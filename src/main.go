package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"AirlinesEDA/src/chart"
	"AirlinesEDA/src/config"
	"AirlinesEDA/src/datasource/file"
	"AirlinesEDA/src/metrics"
	"AirlinesEDA/src/processor"
	"AirlinesEDA/src/storage"
	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 解析参数并执行一次完整流水线，返回进程退出码
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return utils.ExitOK
		}
		fmt.Fprintln(stderr, err)
		return utils.ExitUnknown
	}

	level, err := storage.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return utils.ExitUnknown
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName, level)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to initialize logger:", err)
		return utils.ExitUnknown
	}
	defer logger.Close()
	logger.With("run_id", uuid.NewString())

	m := metrics.NewRunMetrics()
	err = runPipeline(cfg, stdout, logger, m)

	if cfg.MetricsPath != "" {
		if werr := m.WriteTextfile(cfg.MetricsPath); werr != nil {
			logger.Warning("metrics not written", "path", cfg.MetricsPath, "error", werr.Error())
		}
	}

	if err != nil {
		logger.Error("pipeline failed", "kind", utils.KindOf(err).String(), "error", err.Error())
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if utils.IsKind(err, utils.KindRender) {
			fmt.Fprintf(stderr, "Cleaned dataset was still saved as '%s'\n", cfg.OutputPath)
		}
		return utils.ExitCode(err)
	}
	return utils.ExitOK
}

// parseArgs 先读配置文件，再用命令行中显式给出的参数覆盖
func parseArgs(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("airlines-eda", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "配置文件路径(.json/.yaml/.toml)")
	input := fs.String("input", "", "输入CSV或XLSX路径")
	output := fs.String("output", "", "清洗后CSV路径")
	xlsxOutput := fs.String("xlsx-output", "", "额外导出的xlsx路径")
	sheet := fs.String("sheet", "", "xlsx输入的工作表名")
	chartMode := fs.String("chart-mode", "", "图表输出方式: file, interactive, none")
	chartDir := fs.String("chart-dir", "", "图表目录")
	bins := fs.Int("bins", 0, "直方图分箱数")
	logName := fs.String("log", "", "日志文件，为空时输出到stderr")
	logLevel := fs.String("log-level", "", "日志级别: debug, info, warning, error")
	metricsPath := fs.String("metrics", "", "Prometheus textfile输出路径")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *input
		case "output":
			cfg.OutputPath = *output
		case "xlsx-output":
			cfg.XLSXOutputPath = *xlsxOutput
		case "sheet":
			cfg.SheetName = *sheet
		case "chart-mode":
			cfg.ChartMode = *chartMode
		case "chart-dir":
			cfg.ChartDir = *chartDir
		case "bins":
			cfg.HistogramBins = *bins
		case "log":
			cfg.LogName = *logName
		case "log-level":
			cfg.LogLevel = *logLevel
		case "metrics":
			cfg.MetricsPath = *metricsPath
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runPipeline 加载、清洗、派生特征、汇总、画图、写出
func runPipeline(cfg *config.Config, stdout io.Writer, logger *storage.Logger, m *metrics.RunMetrics) error {
	r := processor.NewReporter(stdout, logger)

	r.Println("Starting Airlines Flight Data EDA...")
	r.Separator()

	// 加载
	r.Println("Loading data...")
	start := time.Now()
	df, err := file.ReadDataFrame(cfg.InputPath, cfg.SheetName)
	if err != nil {
		return err
	}
	m.ObserveStage("load", start)
	r.Shape("Data loaded successfully. Shape", df)
	logger.Info("data loaded", "path", cfg.InputPath, "rows", df.Nrow(), "columns", df.Ncol())

	// 清洗
	r.Println("\nCleaning data...")
	start = time.Now()
	p := processor.NewDataProcessor(df, logger)
	if err := p.CleanData(); err != nil {
		return err
	}
	m.ObserveStage("clean", start)
	r.Printf("Removed %d duplicate rows\n", p.Stats.DuplicatesRemoved)

	// 特征
	r.Println("\nCreating new features...")
	start = time.Now()
	if err := p.CreateFeatures(); err != nil {
		return err
	}
	m.ObserveStage("features", start)

	df = p.DataFrame()
	m.RecordClean(p.CalculateMetrics())

	r.DatasetInfo(df)
	r.Describe(processor.Describe(df, processor.NumericColumns))

	// 图表失败不阻止写出清洗结果，写出后再返回
	chartErr := renderCharts(cfg, df, r, logger, m)
	if chartErr != nil {
		logger.Error("charts incomplete, continuing with cleaned dataset", "error", chartErr.Error())
	}

	// 写出
	r.Println("\nSaving cleaned dataset...")
	start = time.Now()
	if err := file.WriteCSV(df, cfg.OutputPath); err != nil {
		return err
	}
	r.Printf("Cleaned dataset saved as '%s'\n", cfg.OutputPath)
	if cfg.XLSXOutputPath != "" {
		if err := file.SaveToExcel(df, cfg.XLSXOutputPath); err != nil {
			return err
		}
		r.Printf("Cleaned dataset also saved as '%s'\n", cfg.XLSXOutputPath)
	}
	m.ObserveStage("write", start)
	logger.Info("cleaned dataset written", "path", cfg.OutputPath, "rows", df.Nrow())

	if chartErr != nil {
		return chartErr
	}

	r.Println("")
	r.Separator()
	r.Println("EDA completed successfully!")
	r.Shape("Final dataset shape", df)
	if cfg.ChartMode != config.ChartModeNone {
		r.Println("All visualizations have been generated.")
	}
	return nil
}

// renderCharts 渲染全部图表并打印分类计数和异常值汇总，chart_mode为none时只打印汇总
func renderCharts(cfg *config.Config, df dataframe.DataFrame, r *processor.Reporter, logger *storage.Logger, m *metrics.RunMetrics) error {
	sink, err := chart.NewSink(cfg, logger)
	if err != nil {
		return utils.RenderError("open chart sink", cfg.ChartDir, err)
	}

	var renderErr error
	if sink == nil {
		logger.Info("chart rendering disabled")
	} else {
		start := time.Now()
		v := chart.NewVisualizer(sink, cfg.HistogramBins, logger)
		renderErr = v.RenderAll(df, func(title string) {
			r.Printf("\n%s\n", title)
		})
		m.ChartsRendered.Add(float64(len(v.Saved())))
		m.ObserveStage("charts", start)
		if ws, ok := sink.(*chart.WindowSink); ok {
			r.Printf("Charts written to '%s'\n", ws.Dir())
		}
	}

	r.Println("\nCategorical value counts:")
	for _, col := range processor.CategoricalColumns {
		r.ValueCounts(col, processor.ValueCounts(df, col), 5)
	}
	r.Println("\nOutlier bounds (1.5 IQR):")
	r.Outliers(processor.OutlierSummary(df, processor.NumericColumns))

	return renderErr
}
