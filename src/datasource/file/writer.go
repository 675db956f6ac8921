// writer.go
package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// WriteCSV 将DataFrame写为CSV：含表头、无索引列、缺失值为空
func WriteCSV(df dataframe.DataFrame, filePath string) (err error) {
	f, err := os.Create(filePath)
	if err != nil {
		return utils.FileAccessError("save", filePath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = utils.FileAccessError("save", filePath, cerr)
		}
	}()

	if err := EncodeCSV(f, df); err != nil {
		return utils.FileAccessError("save", filePath, err)
	}
	return nil
}

// EncodeCSV 按列格式化后逐行写出，浮点数使用最短可还原表示
func EncodeCSV(w io.Writer, df dataframe.DataFrame) error {
	cw := csv.NewWriter(w)
	names := df.Names()
	if err := cw.Write(names); err != nil {
		return err
	}

	cols := make([]series.Series, len(names))
	for i, name := range names {
		cols[i] = df.Col(name)
	}

	record := make([]string, len(names))
	for row := 0; row < df.Nrow(); row++ {
		for i, col := range cols {
			record[i] = utils.FormatElement(col.Elem(row))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveToExcel 将DataFrame另存为xlsx，内容与CSV一致
func SaveToExcel(df dataframe.DataFrame, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("创建Excel写入器失败: %w", err)
	}

	// 写入列名
	colNames := df.Names()
	header := make([]interface{}, len(colNames))
	for i, name := range colNames {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("写入Excel表头失败: %w", err)
	}

	cols := make([]series.Series, len(colNames))
	for i, name := range colNames {
		cols[i] = df.Col(name)
	}

	// 写入数据
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		values := make([]interface{}, len(cols))
		for colIdx, col := range cols {
			values[colIdx] = excelValue(col.Elem(rowIdx))
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("写入Excel第%d行失败: %w", rowIdx+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("写入Excel文件失败: %w", err)
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return utils.FileAccessError("save", filePath, fmt.Errorf("保存Excel文件失败: %w", err))
	}
	return nil
}

func excelValue(e series.Element) interface{} {
	if utils.IsMissing(e) {
		return nil
	}
	switch e.Type() {
	case series.Float:
		return e.Float()
	case series.Int:
		v, _ := e.Int()
		return v
	default:
		return e.String()
	}
}
