package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"AirlinesEDA/src/config"
	"AirlinesEDA/src/storage"
	"AirlinesEDA/src/utils"

	"github.com/pkg/browser"
)

// Sink 接收渲染好的PNG图像
type Sink interface {
	// Save 保存名为name的图像，返回写入的文件路径
	Save(name string, img io.WriterTo) (string, error)
}

// FileSink 每张图写为 Dir/<name>.png
type FileSink struct {
	Dir string
}

func (s *FileSink) Save(name string, img io.WriterTo) (path string, err error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", utils.FileAccessError("save chart", s.Dir, err)
	}

	path = filepath.Join(s.Dir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", utils.FileAccessError("save chart", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = utils.FileAccessError("save chart", path, cerr)
		}
	}()

	if _, err := img.WriteTo(f); err != nil {
		return "", utils.RenderError("encode chart", path, err)
	}
	return path, nil
}

// WindowSink 写入临时目录后用系统默认查看器打开。
// 查看器无法启动时只记录警告，图像仍保留在目录中。
type WindowSink struct {
	files  FileSink
	open   func(path string) error
	logger *storage.Logger
}

// NewWindowSink 在系统临时目录下创建图表目录
func NewWindowSink(logger *storage.Logger) (*WindowSink, error) {
	dir, err := os.MkdirTemp("", "airlines-eda-charts-")
	if err != nil {
		return nil, fmt.Errorf("创建临时图表目录失败: %w", err)
	}
	return &WindowSink{files: FileSink{Dir: dir}, open: browser.OpenFile, logger: logger}, nil
}

// Dir 图像所在目录
func (s *WindowSink) Dir() string {
	return s.files.Dir
}

func (s *WindowSink) Save(name string, img io.WriterTo) (string, error) {
	path, err := s.files.Save(name, img)
	if err != nil {
		return "", err
	}
	if err := s.open(path); err != nil {
		s.logger.Warning("chart viewer unavailable, image kept on disk",
			"path", path, "error", utils.RenderError("open chart", path, err).Error())
	}
	return path, nil
}

// NewSink 按chart_mode创建输出，none返回nil
func NewSink(cfg *config.Config, logger *storage.Logger) (Sink, error) {
	switch cfg.ChartMode {
	case config.ChartModeFile:
		return &FileSink{Dir: cfg.ChartDir}, nil
	case config.ChartModeInteractive:
		ws, err := NewWindowSink(logger)
		if err != nil {
			return nil, err
		}
		return ws, nil
	case config.ChartModeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown chart mode %q", cfg.ChartMode)
	}
}
