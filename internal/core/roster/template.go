package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// TemplateFileName is the download name of the import template.
	TemplateFileName = "modele-import-affectations.xlsx"

	TemplateSheet     = "Affectations Service Civique"
	instructionsSheet = "Instructions"

	brandColor = "366092"
)

// templateColumns are the headers of the import template with their widths.
var templateColumns = []struct {
	header string
	width  float64
}{
	{"Nom", 18},
	{"Prénom(s)", 18},
	{"Date de naissance", 18},
	{"Lieu de naissance", 22},
	{"Diplôme", 24},
	{"Lieu d'obtention du diplôme", 30},
	{"Lieu d'affectation", 30},
	{"Numéro de décret", 22},
}

var templateSamples = [][]string{
	{"Dupont", "Jean", "15/3/1995", "Paris", "Master Informatique", "Université de Paris", "Ministère de la Défense", "DECRET_2024_001"},
	{"Martin", "Marie", "22/7/1996", "Lyon", "Licence Administration", "Université Lyon 2", "Ministère de l'Intérieur", "DECRET_2024_001"},
	{"Diallo", "Ahmed", "8/11/1994", "Niamey", "Master Génie Civil", "Université Abdou Moumouni", "Ministère des Infrastructures", "DECRET_2024_001"},
}

var templateInstructions = []string{
	"MODÈLE D'IMPORT - AFFECTATIONS SERVICE CIVIQUE",
	"",
	"INSTRUCTIONS D'UTILISATION :",
	"",
	`1. Utilisez la feuille "Affectations Service Civique" pour saisir vos données`,
	"2. Respectez exactement le format des en-têtes (ne pas modifier)",
	"3. Les colonnes indiquées sont toutes obligatoires, sauf le lieu d'obtention du diplôme et le numéro de décret",
	"4. Format de date : J/M/AAAA (exemple: 15/3/1995), J/M/AA ou AAAA pour l'année seule",
	"5. Supprimez les lignes d'exemple avant l'import",
	"",
	"COLONNES REQUISES :",
	"• Nom : Nom de famille",
	"• Prénom(s) : Prénom ou liste de prénoms",
	"• Date de naissance : Format J/M/AAAA",
	"• Lieu de naissance : Ville ou pays de naissance",
	"• Diplôme : Intitulé complet du diplôme obtenu",
	"• Lieu d'obtention du diplôme : Établissement où le diplôme a été délivré",
	"• Lieu d'affectation : Ministère ou organisme d'affectation",
	"• Numéro de décret : Numéro du décret correspondant (par défaut celui saisi à l'import)",
	"",
	"ATTENTION :",
	"• Vérifiez que toutes les cellules obligatoires sont remplies",
	"• Sauvegardez le fichier au format .xlsx ou .csv avant l'import",
}

// Template writes the import template workbook to w: a data sheet with
// styled headers and three sample rows, followed by an instructions sheet.
func Template(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if err := writeDataSheet(f); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if err := writeInstructionsSheet(f); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("template: write workbook: %w", err)
	}
	return nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

func writeDataSheet(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{brandColor}},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return err
	}

	headers := make([]any, len(templateColumns))
	for i, col := range templateColumns {
		headers[i] = col.header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(TemplateSheet, name, name, col.width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(TemplateSheet, "A1", &headers); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(templateColumns))
	if err := f.SetCellStyle(TemplateSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, sample := range templateSamples {
		row := make([]any, len(sample))
		for j, v := range sample {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(TemplateSheet, cell, &row); err != nil {
			return err
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(templateColumns), len(templateSamples)+1)
	return f.SetCellStyle(TemplateSheet, "A2", lastCell, cellStyle)
}

func writeInstructionsSheet(f *excelize.File) error {
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: brandColor}})
	if err != nil {
		return err
	}
	headingStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: brandColor}})
	if err != nil {
		return err
	}
	bulletStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Indent: 1},
	})
	if err != nil {
		return err
	}

	for i, line := range templateInstructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(instructionsSheet, cell, line); err != nil {
			return err
		}

		style := 0
		switch {
		case i == 0:
			style = titleStyle
		case strings.Contains(line, ":") && strings.ToUpper(line) == line:
			style = headingStyle
		case strings.HasPrefix(line, "•"):
			style = bulletStyle
		}
		if style != 0 {
			if err := f.SetCellStyle(instructionsSheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(instructionsSheet, "A", "A", 80)
}
