/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package i18n

import (
	"github.com/golang/glog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

// Messages printed to users. English is the source language.
const (
	VetFailed         = "go vet returned code %d, %d warnings"
	FoundWarnings     = "%d warnings in %d files"
	AnalyzerFailed    = "analyzer %s failed on package %s: %s"
	RunningCommand    = "Running %s"
	LinesOfGoCode     = "%d lines of Go code"
	SummaryTitle      = "go vet results"
	SummaryNoFindings = "No issues found."
	SummaryRule       = "Rule"
	SummaryCount      = "Count"
	SummaryDesc       = "Description"
	ResultsWritten    = "Results written to %s"
)

var zh = map[string]string{
	VetFailed:         "go vet 返回代码 %d，%d 个警告",
	FoundWarnings:     "在 %[2]d 个文件中发现 %[1]d 个警告",
	AnalyzerFailed:    "分析器 %s 在包 %s 上运行失败：%s",
	RunningCommand:    "正在运行 %s",
	LinesOfGoCode:     "Go 代码 %d 行",
	SummaryTitle:      "go vet 检查结果",
	SummaryNoFindings: "未发现问题。",
	SummaryRule:       "规则",
	SummaryCount:      "数量",
	SummaryDesc:       "说明",
	ResultsWritten:    "结果已写入 %s",
}

func init() {
	for key, msg := range zh {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			glog.Errorf("message.SetString(%q): %v", key, err)
		}
	}
}

func SupportedLanguage(lang string) bool {
	_, ok := languageMap[lang]
	return ok
}

// GetPrinter returns a printer for lang, falling back to English.
func GetPrinter(lang string) *message.Printer {
	langTag := language.English
	if tag, exist := languageMap[lang]; exist {
		langTag = tag
	}
	return message.NewPrinter(langTag)
}
