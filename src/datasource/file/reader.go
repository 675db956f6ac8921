// reader.go
package file

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AirlinesEDA/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadDataFrame 按扩展名选择读取方式，.xlsx 读取sheetName工作表，其余按CSV处理
func ReadDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return ReadXLSXToDataFrame(filePath, sheetName)
	}
	return ReadCSVToDataFrame(filePath)
}

// ReadCSVToDataFrame 读取带表头的CSV，所有单元格按字符串载入，类型转换由清洗阶段负责
func ReadCSVToDataFrame(filePath string) (dataframe.DataFrame, error) {
	// 一次性读入，文件句柄不跨阶段持有
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, utils.FileAccessError("load", filePath, err)
	}

	df, err := ParseCSV(raw)
	if err != nil {
		return dataframe.DataFrame{}, utils.ParseError("load", filePath, err)
	}
	return df, nil
}

// ParseCSV 校验UTF-8、去掉BOM后解析为DataFrame
func ParseCSV(raw []byte) (dataframe.DataFrame, error) {
	decoder := transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	data, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("input is not valid UTF-8: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return dataframe.DataFrame{}, errors.New("empty csv input")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	records, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("malformed csv: %w", err)
	}
	return recordsToDataFrame(records)
}

// recordsToDataFrame 第一条记录为表头，所有单元格按字符串载入。
// 只有表头时返回0行的表。
func recordsToDataFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, errors.New("no header row")
	}

	if len(records) == 1 {
		// gota的LoadRecords不接受空表，逐列构造
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		if df.Err != nil {
			return dataframe.DataFrame{}, df.Err
		}
		return df, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	if _, err := os.Stat(filePath); err != nil {
		return dataframe.DataFrame{}, utils.FileAccessError("load", filePath, err)
	}
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, utils.ParseError("load", filePath, fmt.Errorf("xlsx open file false: %w", err))
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, utils.ParseError("load", filePath, errors.New("excel文件中没有工作表"))
	}
	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		return dataframe.DataFrame{}, utils.ParseError("load", filePath, fmt.Errorf("工作表 %q 不存在", sheetName))
	}

	// 3. 转换为Gota DataFrame
	df, err := convertSheetToDataFrame(sheet)
	if err != nil {
		return dataframe.DataFrame{}, utils.ParseError("load", filePath, err)
	}
	return df, nil
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame，第一行为标题行
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{}, errors.New("sheet has no header row")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)

	// 填充数据(从第二行开始)
	for _, row := range sheet.Rows[1:] {
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		if len(row.Cells) > len(headers) {
			return dataframe.DataFrame{}, fmt.Errorf("row has %d cells, header has %d", len(row.Cells), len(headers))
		}
		record := make([]string, len(headers))
		for i, cell := range row.Cells {
			record[i] = cell.Value
		}
		records = append(records, record)
	}

	return recordsToDataFrame(records)
}
