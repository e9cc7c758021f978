// Package report exports batch, mining and audit results as XLSX workbooks
// for the store operators.
package report

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/twp-acessorios/garimpo-cli/internal/audit"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

// WriteBatch writes a batch report workbook with a summary sheet and one row
// per item.
func WriteBatch(path string, rep model.BatchReport) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Resumo")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, "Run", rep.RunID)
	addRow(summary, "Início", rep.StartedAt.Format("2006-01-02 15:04:05"))
	addRow(summary, "Fim", rep.FinishedAt.Format("2006-01-02 15:04:05"))
	addRow(summary, "Aceitos", fmt.Sprintf("%d", rep.Accepted))
	addRow(summary, "Rejeitados", fmt.Sprintf("%d", rep.Rejected))
	addRow(summary, "Aplicados", fmt.Sprintf("%d", rep.Applied))
	addRow(summary, "Falhas", fmt.Sprintf("%d", rep.Failed))
	addRow(summary, "Pulados", fmt.Sprintf("%d", rep.Skipped))

	items, err := f.AddSheet("Itens")
	if err != nil {
		return eris.Wrap(err, "report: add items sheet")
	}
	addRow(items, "ID", "Título", "Resultado", "Score", "Preço Final", "Erro", "Motivos")
	for _, item := range rep.Items {
		addRow(items,
			item.ExternalID,
			item.Title,
			string(item.Outcome),
			fmt.Sprintf("%.0f", item.Score),
			fmt.Sprintf("%.2f", item.FinalPrice),
			item.ErrorKind,
			strings.Join(item.Reasons, "; "),
		)
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}

// WriteMining writes scored mining candidates, one row each.
func WriteMining(path string, scored []model.ScoredCandidate) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Garimpo")
	if err != nil {
		return eris.Wrap(err, "report: add mining sheet")
	}
	addRow(sheet, "ID", "Título", "Título PT-BR", "Categoria", "Preço USD",
		"Pedidos", "Rating", "Reviews", "Score", "Aprovado", "Preço Sugerido BRL", "Fonte", "URL")
	for _, sc := range scored {
		approved := "não"
		if sc.Approved {
			approved = "sim"
		}
		addRow(sheet,
			sc.ExternalID,
			sc.Title,
			sc.TitlePTBR,
			sc.Category,
			fmt.Sprintf("%.2f", sc.Price),
			fmt.Sprintf("%d", sc.Orders),
			fmt.Sprintf("%.1f", sc.Rating),
			fmt.Sprintf("%d", sc.Reviews),
			fmt.Sprintf("%.0f", sc.Score),
			approved,
			fmt.Sprintf("%.2f", sc.SuggestedPrice),
			string(sc.Source),
			sc.ListingURL,
		)
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}

// WriteAudit writes an audit report workbook.
func WriteAudit(path string, rep *audit.Report) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Auditoria")
	if err != nil {
		return eris.Wrap(err, "report: add audit sheet")
	}
	addRow(sheet, "Total de produtos", fmt.Sprintf("%d", rep.TotalProducts))
	addRow(sheet, "Produtos com problemas", fmt.Sprintf("%d", rep.ProductsWithIssues))
	addRow(sheet, "Categorias sem coleção", strings.Join(rep.UncoveredCategories, "; "))

	issues, err := f.AddSheet("Problemas")
	if err != nil {
		return eris.Wrap(err, "report: add issues sheet")
	}
	addRow(issues, "ID", "Título", "Problemas")
	for _, issue := range rep.Issues {
		addRow(issues,
			fmt.Sprintf("%d", issue.RemoteID),
			issue.Title,
			strings.Join(issue.Problems, "; "),
		)
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}
