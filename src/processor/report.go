// report.go
package processor

import (
	"fmt"
	"io"
	"math"
	"strings"

	"AirlinesEDA/src/storage"

	"github.com/go-gota/gota/dataframe"
)

const separator = "=================================================="

// Reporter 向标准输出打印进度和汇总信息。
// 写失败只记录一次警告，不影响流水线。
type Reporter struct {
	out    io.Writer
	logger *storage.Logger
	err    error
}

func NewReporter(out io.Writer, logger *storage.Logger) *Reporter {
	return &Reporter{out: out, logger: logger}
}

// Err 返回第一次写失败的错误
func (r *Reporter) Err() error {
	return r.err
}

func (r *Reporter) Printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.err = err
		r.logger.Warning("report output failed, further summary lines are dropped", "error", err.Error())
	}
}

func (r *Reporter) Println(line string) {
	r.Printf("%s\n", line)
}

func (r *Reporter) Separator() {
	r.Println(separator)
}

// Shape 打印(行数, 列数)
func (r *Reporter) Shape(prefix string, df dataframe.DataFrame) {
	rows, cols := df.Dims()
	r.Printf("%s: (%d, %d)\n", prefix, rows, cols)
}

// DatasetInfo 打印最终行列数和列名
func (r *Reporter) DatasetInfo(df dataframe.DataFrame) {
	r.Println("\nDataset Info:")
	r.Shape("Final shape", df)
	r.Printf("Columns: [%s]\n", strings.Join(df.Names(), ", "))
}

// Describe 打印数值列的描述统计表
func (r *Reporter) Describe(summaries []ColumnSummary) {
	if len(summaries) == 0 {
		return
	}
	r.Println("\nNumeric summary:")
	r.Printf("%-16s %8s %12s %12s %12s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, s := range summaries {
		r.Printf("%-16s %8d %12s %12s %12s %12s %12s %12s %12s\n",
			s.Name, s.Count, num(s.Mean), num(s.Std), num(s.Min),
			num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max))
	}
}

// ValueCounts 打印分类列中出现最多的top个取值，top<=0时全部打印
func (r *Reporter) ValueCounts(col string, counts []ValueCount, top int) {
	r.Printf("  %s (%d distinct):", col, len(counts))
	if top <= 0 || top > len(counts) {
		top = len(counts)
	}
	for _, c := range counts[:top] {
		r.Printf(" %s=%d", c.Label, c.Count)
	}
	if top < len(counts) {
		r.Printf(" ...")
	}
	r.Printf("\n")
}

// Outliers 打印异常值界限和界外行数
func (r *Reporter) Outliers(stats []OutlierStat) {
	for _, s := range stats {
		r.Printf("  %s: bounds [%s, %s], %d outliers\n", s.Name, num(s.Lower), num(s.Upper), s.Count)
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}
