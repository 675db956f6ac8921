package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"AirlinesEDA/src/processor"
	"AirlinesEDA/src/storage"
	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	skyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	orange  = color.RGBA{R: 255, G: 165, A: 255}
	nanGray = color.Gray{Y: 200}
)

// Visualizer 依次渲染固定的一组图表，只读不修改输入表
type Visualizer struct {
	sink   Sink
	bins   int
	logger *storage.Logger
	saved  []string
}

func NewVisualizer(sink Sink, bins int, logger *storage.Logger) *Visualizer {
	if bins <= 0 {
		bins = 30
	}
	return &Visualizer{sink: sink, bins: bins, logger: logger}
}

// Saved 已写出的图像路径
func (v *Visualizer) Saved() []string {
	return v.saved
}

func (v *Visualizer) save(name string, img io.WriterTo) error {
	path, err := v.sink.Save(name, img)
	if err != nil {
		if utils.KindOf(err) == utils.KindUnknown {
			err = utils.RenderError("save chart", name, err)
		}
		return err
	}
	v.saved = append(v.saved, path)
	v.logger.Debug("chart saved", "chart", name, "path", path)
	return nil
}

func (v *Visualizer) savePlot(name string, p *plot.Plot, w, h vg.Length) error {
	img, err := p.WriterTo(w, h, "png")
	if err != nil {
		return utils.RenderError("render chart", name, err)
	}
	return v.save(name, img)
}

// Step 一组图表及其进度提示
type Step struct {
	Title  string
	Render func(dataframe.DataFrame) error
}

// Steps 全部图表的固定渲染顺序
func (v *Visualizer) Steps() []Step {
	return []Step{
		{"Generating numerical features histograms...", v.NumericHistograms},
		{"Generating categorical features distribution plots...", v.CategoricalCounts},
		{"Generating correlation matrix...", v.CorrelationHeatmap},
		{"Generating price analysis boxplots...", v.priceBoxplots},
		{"Generating outlier detection plots...", v.OutlierBoxplots},
	}
}

// RenderAll 按Steps顺序渲染，progress在每组开始前收到标题，可为nil。
// 遇到第一个错误即停止。
func (v *Visualizer) RenderAll(df dataframe.DataFrame, progress func(title string)) error {
	for _, step := range v.Steps() {
		if progress != nil {
			progress(step.Title)
		}
		if err := step.Render(df); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visualizer) priceBoxplots(df dataframe.DataFrame) error {
	if err := v.PriceByAirline(df); err != nil {
		return err
	}
	return v.PriceByClass(df)
}

// NumericHistograms 四个数值列的直方图，2x2排列
func (v *Visualizer) NumericHistograms(df dataframe.DataFrame) error {
	plots := make([][]*plot.Plot, 2)
	for i := range plots {
		plots[i] = make([]*plot.Plot, 2)
	}

	for i, col := range processor.NumericColumns {
		p := plot.New()
		p.Title.Text = col
		p.Y.Label.Text = "count"

		vals := numericValues(df, col)
		if len(vals) > 0 {
			h, err := plotter.NewHist(plotter.Values(vals), v.bins)
			if err != nil {
				return utils.RenderError("histogram", col, err)
			}
			h.FillColor = skyBlue
			h.LineStyle.Color = color.Black
			p.Add(h)
		}
		plots[i/2][i%2] = p
	}

	return v.save("numeric_histograms", gridImage(plots, 12*vg.Inch, 8*vg.Inch))
}

// CategoricalCounts 每个分类列一张横向计数图，按频次降序
func (v *Visualizer) CategoricalCounts(df dataframe.DataFrame) error {
	for _, col := range processor.CategoricalColumns {
		counts := processor.ValueCounts(df, col)
		p, err := countPlot(col, counts)
		if err != nil {
			return utils.RenderError("count plot", col, err)
		}
		if err := v.savePlot("count_"+col, p, 10*vg.Inch, 4*vg.Inch); err != nil {
			return err
		}
	}
	return nil
}

func countPlot(col string, counts []processor.ValueCount) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of " + col
	p.X.Label.Text = "count"

	n := len(counts)
	colors := categoricalColors(n)
	labels := make([]string, n)
	for i, c := range counts {
		// 频次最高的画在最上面
		pos := n - 1 - i
		labels[pos] = c.Label

		bar, err := plotter.NewBarChart(plotter.Values{float64(c.Count)}, vg.Points(18))
		if err != nil {
			return nil, err
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = colors[i]
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	if n > 0 {
		p.NominalY(labels...)
	}
	return p, nil
}

// CorrelationHeatmap 数值列相关矩阵热力图，带数值标注
func (v *Visualizer) CorrelationHeatmap(df dataframe.DataFrame) error {
	cols := processor.NumericColumns
	corr := processor.CorrelationMatrix(df, cols)
	p, err := heatmapPlot(cols, corr)
	if err != nil {
		return utils.RenderError("correlation heatmap", "", err)
	}
	return v.savePlot("correlation_matrix", p, 10*vg.Inch, 8*vg.Inch)
}

// corrGrid 实现plotter.GridXYZ，第一列画在最上面
type corrGrid struct {
	corr [][]float64
}

func (g corrGrid) Dims() (c, r int) { return len(g.corr), len(g.corr) }
func (g corrGrid) Z(c, r int) float64 {
	return g.corr[len(g.corr)-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }
func (g corrGrid) Min() float64    { return -1 }
func (g corrGrid) Max() float64    { return 1 }

func heatmapPlot(cols []string, corr [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Correlation Matrix"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	grid := corrGrid{corr: corr}
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = nanGray
	p.Add(hm)

	n := len(cols)
	xys := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			z := grid.Z(c, r)
			if math.IsNaN(z) {
				texts = append(texts, "nan")
			} else {
				texts = append(texts, fmt.Sprintf("%.2f", z))
			}
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	yNames := make([]string, n)
	for i, name := range cols {
		yNames[n-1-i] = name
	}
	p.NominalX(cols...)
	p.NominalY(yNames...)
	return p, nil
}

// PriceByAirline 各航空公司价格箱线图
func (v *Visualizer) PriceByAirline(df dataframe.DataFrame) error {
	p, err := groupedBoxPlot("Flight Price by Airline", df, processor.ColAirline, processor.ColPrice, true)
	if err != nil {
		return utils.RenderError("price by airline", "", err)
	}
	return v.savePlot("price_by_airline", p, 12*vg.Inch, 6*vg.Inch)
}

// PriceByClass 各舱位价格箱线图
func (v *Visualizer) PriceByClass(df dataframe.DataFrame) error {
	p, err := groupedBoxPlot("Flight Price by Class", df, processor.ColClass, processor.ColPrice, false)
	if err != nil {
		return utils.RenderError("price by class", "", err)
	}
	return v.savePlot("price_by_class", p, 8*vg.Inch, 6*vg.Inch)
}

func groupedBoxPlot(title string, df dataframe.DataFrame, groupCol, valueCol string, rotate bool) (*plot.Plot, error) {
	order, groups := groupValues(df, groupCol, valueCol)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = groupCol
	p.Y.Label.Text = valueCol

	colors := categoricalColors(len(order))
	for i, name := range order {
		vals := groups[name]
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(vals))
		if err != nil {
			return nil, err
		}
		b.FillColor = colors[i]
		p.Add(b)
	}
	if len(order) > 0 {
		p.NominalX(order...)
	}
	if rotate {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

// OutlierBoxplots 四个数值列的横向箱线图，2x2排列，须长1.5倍四分位距
func (v *Visualizer) OutlierBoxplots(df dataframe.DataFrame) error {
	plots := make([][]*plot.Plot, 2)
	for i := range plots {
		plots[i] = make([]*plot.Plot, 2)
	}

	for i, col := range processor.NumericColumns {
		p := plot.New()
		p.Title.Text = "Boxplot of " + col
		p.X.Label.Text = col
		p.HideY()

		vals := numericValues(df, col)
		if len(vals) > 0 {
			b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
			if err != nil {
				return utils.RenderError("outlier boxplot", col, err)
			}
			b.Horizontal = true
			b.FillColor = orange
			p.Add(b)
		}
		plots[i/2][i%2] = p
	}

	return v.save("outlier_boxplots", gridImage(plots, 12*vg.Inch, 8*vg.Inch))
}

// gridImage 把多张图按网格画到一张PNG上
func gridImage(plots [][]*plot.Plot, w, h vg.Length) io.WriterTo {
	img := vgimg.New(w, h)
	dc := draw.New(img)

	t := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      5 * vg.Millimeter,
		PadY:      5 * vg.Millimeter,
		PadTop:    3 * vg.Millimeter,
		PadBottom: 3 * vg.Millimeter,
		PadLeft:   3 * vg.Millimeter,
		PadRight:  3 * vg.Millimeter,
	}

	canvases := plot.Align(plots, t, dc)
	for j := range plots {
		for i := range plots[j] {
			if plots[j][i] != nil {
				plots[j][i].Draw(canvases[j][i])
			}
		}
	}
	return vgimg.PngCanvas{Canvas: img}
}

func numericValues(df dataframe.DataFrame, col string) []float64 {
	if !utils.HasColumn(df, col) {
		return nil
	}
	return utils.FloatsNoNA(df.Col(col))
}

// groupValues 按分组列首次出现的顺序收集数值，缺失值跳过
func groupValues(df dataframe.DataFrame, groupCol, valueCol string) ([]string, map[string][]float64) {
	groups := make(map[string][]float64)
	var order []string
	if !utils.HasColumn(df, groupCol) || !utils.HasColumn(df, valueCol) {
		return order, groups
	}

	keys := df.Col(groupCol)
	vals := df.Col(valueCol).Float()
	for i := 0; i < keys.Len(); i++ {
		e := keys.Elem(i)
		if utils.IsMissing(e) {
			continue
		}
		k := e.String()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
			groups[k] = nil
		}
		if !math.IsNaN(vals[i]) {
			groups[k] = append(groups[k], vals[i])
		}
	}
	return order, groups
}

// categoricalColors 从Kindlmann色带取n个颜色
func categoricalColors(n int) []color.Color {
	if n == 0 {
		return nil
	}
	cm := moreland.Kindlmann()
	cm.SetMin(0)
	cm.SetMax(1)
	// 多取一个，避开单色时的除零
	return cm.Palette(n + 1).Colors()[1:]
}
