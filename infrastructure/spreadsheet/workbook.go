package spreadsheet

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/fdesign/nexus-sales-api/internal/config"
)

var ErrSheetNotFound = errors.New("aba não encontrada")

// Store é a interface de acesso à planilha de trabalho. Leituras são sempre
// em bloco (aba inteira); escritas persistem o arquivo imediatamente.
type Store interface {
	ReadSheet(nome string) ([][]string, error)
	ResolveSheet(principal, fallback string) (string, error)
	AppendRow(aba string, valores []interface{}) error
	SetRow(aba string, linha int, valores []interface{}) error
	SetCell(aba string, coluna, linha int, valor interface{}) error
	DeleteRow(aba string, linha int) error
	Close() error
}

type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

func NewWorkbook(cfg config.Workbook) (*Workbook, error) {
	file, err := openOrCreate(cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "abrindo planilha de trabalho")
	}

	wb := &Workbook{file: file, path: cfg.Path}

	if err := wb.ensureLayout(cfg); err != nil {
		return nil, errors.Wrap(err, "preparando abas da planilha")
	}

	return wb, nil
}

func openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logrus.Warnf("Planilha %s inexistente — criando uma nova", path)
		file := excelize.NewFile()
		if err := file.SaveAs(path); err != nil {
			return nil, err
		}
		return file, nil
	}
	return excelize.OpenFile(path)
}

// ensureLayout garante que todas as abas consumidas existam com seus
// cabeçalhos, sem tocar nas que já têm conteúdo.
func (w *Workbook) ensureLayout(cfg config.Workbook) error {
	layouts := []struct {
		nome      string
		cabecalho []interface{}
	}{
		{cfg.UsersSheet, []interface{}{
			"USER_ID", "NOME", "TIPO", "EMAIL", "TELEFONE", "PIN", "COMISSAO", "STATUS",
		}},
		{cfg.SalesSheet, []interface{}{
			"SALES_ID", "DATE", "TYPE", "STATUS", "COMMISSION", "CLIENT NAME", "BUSINESS NAME",
			"INVOICE #", "PRODUCT DESCRIPTION", "AMOUNT ($)", "BALANCE DUE", "PAID",
			"PAYMENT METHOD", "NOTES", "% OF SALES ($)", "SELLER_ID", "CREATED_BY",
		}},
		{cfg.BudgetsSheet, []interface{}{
			"ID", "DATA_CRIACAO", "ORIGEM", "CRIADO_POR", "CLIENTE",
			"EMAIL", "TELEFONE", "DESCRICAO", "VALOR", "STATUS",
			"DATA_ENVIO", "ULTIMO_CONTATO", "MSG_ENVIADAS", "LIGACOES_FEITAS",
			"RESP_POS", "RESP_NEG", "MOTIVO_PERDA", "OBSERVACOES",
		}},
		{cfg.ConfigSheet, []interface{}{"CHAVE", "VALOR"}},
		{cfg.AuditSheet, []interface{}{"TIMESTAMP", "USUARIO", "ACAO", "DETALHES", "ENTRY_ID"}},
	}

	alterado := false
	for _, layout := range layouts {
		// A aba de orçamentos legada satisfaz a principal
		if layout.nome == cfg.BudgetsSheet {
			if _, err := w.sheetIndex(cfg.BudgetsSheetFallback); err == nil {
				continue
			}
		}

		if _, err := w.sheetIndex(layout.nome); err == nil {
			continue
		}

		if _, err := w.file.NewSheet(layout.nome); err != nil {
			return err
		}
		if err := w.file.SetSheetRow(layout.nome, "A1", &layout.cabecalho); err != nil {
			return err
		}
		alterado = true
	}

	if !alterado {
		return nil
	}
	return w.file.Save()
}

func (w *Workbook) sheetIndex(nome string) (int, error) {
	indice, err := w.file.GetSheetIndex(nome)
	if err != nil {
		return 0, err
	}
	if indice < 0 {
		return 0, ErrSheetNotFound
	}
	return indice, nil
}

// ReadSheet lê a aba inteira em uma única chamada. Aba inexistente produz
// uma fatia vazia, nunca erro.
func (w *Workbook) ReadSheet(nome string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.sheetIndex(nome); err != nil {
		return [][]string{}, nil
	}

	linhas, err := w.file.GetRows(nome)
	if err != nil {
		return nil, errors.Wrapf(err, "lendo aba %s", nome)
	}
	return linhas, nil
}

// ResolveSheet devolve o nome da aba principal quando ela existe, senão o da
// aba fallback. Registra um aviso quando o fallback é usado.
func (w *Workbook) ResolveSheet(principal, fallback string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.sheetIndex(principal); err == nil {
		return principal, nil
	}

	if fallback != "" {
		if _, err := w.sheetIndex(fallback); err == nil {
			logrus.Warnf("Utilizando aba fallback: %s", fallback)
			return fallback, nil
		}
	}

	return "", errors.Wrapf(ErrSheetNotFound, "%s", principal)
}

func (w *Workbook) AppendRow(aba string, valores []interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.sheetIndex(aba); err != nil {
		return errors.Wrapf(err, "aba %s", aba)
	}

	linhas, err := w.file.GetRows(aba)
	if err != nil {
		return errors.Wrapf(err, "lendo aba %s", aba)
	}

	celula, err := excelize.CoordinatesToCellName(1, len(linhas)+1)
	if err != nil {
		return err
	}

	if err := w.file.SetSheetRow(aba, celula, &valores); err != nil {
		return errors.Wrapf(err, "gravando linha na aba %s", aba)
	}
	return w.file.Save()
}

// SetRow sobrescreve a linha indicada (1-indexada, cabeçalho = linha 1).
func (w *Workbook) SetRow(aba string, linha int, valores []interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	celula, err := excelize.CoordinatesToCellName(1, linha)
	if err != nil {
		return err
	}

	if err := w.file.SetSheetRow(aba, celula, &valores); err != nil {
		return errors.Wrapf(err, "atualizando linha %d da aba %s", linha, aba)
	}
	return w.file.Save()
}

func (w *Workbook) SetCell(aba string, coluna, linha int, valor interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	celula, err := excelize.CoordinatesToCellName(coluna, linha)
	if err != nil {
		return err
	}

	if err := w.file.SetCellValue(aba, celula, valor); err != nil {
		return errors.Wrapf(err, "atualizando célula %s da aba %s", celula, aba)
	}
	return w.file.Save()
}

func (w *Workbook) DeleteRow(aba string, linha int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.RemoveRow(aba, linha); err != nil {
		return errors.Wrapf(err, "removendo linha %d da aba %s", linha, aba)
	}
	return w.file.Save()
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
