package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	MsgUnsupportedType = "File type %s is not supported."
	MsgMissingType     = "The file type could not be determined."
	MsgFileTooLarge    = "File is larger than the %d byte limit."
	MsgConversionFail  = "The conversion failed."
	MsgTimedOut        = "The conversion took too long."
	MsgAborted         = "The conversion was interrupted."
	MsgMissingOutput   = "The conversion finished without a result file."
)

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	entries := map[language.Tag]map[string]string{
		language.English: {
			MsgUnsupportedType: "File type %s is not supported.",
			MsgMissingType:     "The file type could not be determined.",
			MsgFileTooLarge:    "File is larger than the %d byte limit.",
			MsgConversionFail:  "The conversion failed.",
			MsgTimedOut:        "The conversion took too long.",
			MsgAborted:         "The conversion was interrupted.",
			MsgMissingOutput:   "The conversion finished without a result file.",
		},
		language.French: {
			MsgUnsupportedType: "Le type de fichier %s n'est pas pris en charge.",
			MsgMissingType:     "Le type du fichier est inconnu.",
			MsgFileTooLarge:    "Le fichier dépasse la limite de %d octets.",
			MsgConversionFail:  "La conversion a échoué.",
			MsgTimedOut:        "La conversion a pris trop de temps.",
			MsgAborted:         "La conversion a été interrompue.",
			MsgMissingOutput:   "La conversion s'est terminée sans fichier de sortie.",
		},
		language.Spanish: {
			MsgUnsupportedType: "El tipo de archivo %s no es compatible.",
			MsgMissingType:     "No se pudo determinar el tipo de archivo.",
			MsgFileTooLarge:    "El archivo supera el límite de %d bytes.",
			MsgConversionFail:  "La conversión falló.",
			MsgTimedOut:        "La conversión tardó demasiado.",
			MsgAborted:         "La conversión se interrumpió.",
			MsgMissingOutput:   "La conversión terminó sin archivo de resultado.",
		},
	}
	for tag, msgs := range entries {
		for key, msg := range msgs {
			// keys are constants, SetString only fails on malformed tags
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}
