package pgn

import "strings"

// Checked in order; the first group with a hit wins.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentHours, []string{"horario", "horarios", "atención", "atienden", "abren", "abierto", "cierra"}},
	{IntentOffices, []string{"sede", "sedes", "ubicación", "ubicacion", "direccion", "dirección", "departamento", "mapa", "dónde", "donde"}},
	{IntentComplaint, []string{"denuncia", "denunciar", "maltrato", "violencia", "abuso", "reportar", "presentar"}},
}

// DetectIntent classifies a message by keyword substring match.
func DetectIntent(message string) Intent {
	msg := strings.ToLower(message)
	for _, group := range intentKeywords {
		for _, k := range group.keywords {
			if strings.Contains(msg, k) {
				return group.intent
			}
		}
	}
	return IntentUnknown
}
