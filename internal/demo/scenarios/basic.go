// Package scenarios contains built-in seeds for the demo backend.
package scenarios

import (
	"time"

	"github.com/zhubert/chatmodal/internal/demo"
)

// DemoUserID is the user every built-in scenario is seeded for.
const DemoUserID = 4356

// Overview seeds a few legal consultations of different lengths, one long
// enough to need several history pages.
var Overview = &demo.Scenario{
	Name:        "overview",
	Description: "Three past consultations, one with paged history",
	UserID:      DemoUserID,
	Conversations: []demo.SeedConversation{
		{
			SessionID: "demo-arrendamiento",
			Title:     "Contrato de arrendamiento",
			Age:       2 * time.Hour,
			Turns: []demo.Turn{
				demo.Human("¿Puede mi arrendador subir el alquiler a mitad de contrato?"),
				demo.AI("En general no. Salvo que el contrato prevea una cláusula de actualización, la renta pactada se mantiene durante la vigencia del contrato."),
				demo.Human("El contrato menciona una actualización anual según el IPC."),
				demo.AI("Entonces la subida solo puede aplicarse en la fecha de aniversario y con el índice indicado. Conviene pedir por escrito el cálculo aplicado."),
			},
		},
		{
			SessionID: "demo-despido",
			Title:     "Despido improcedente",
			Age:       26 * time.Hour,
			Turns:     longConsultation(),
		},
		{
			SessionID: "demo-herencia",
			Title:     "Aceptación de herencia",
			Age:       72 * time.Hour,
			Turns: []demo.Turn{
				demo.Human("¿Qué significa aceptar una herencia a beneficio de inventario?"),
				demo.AI("Significa que respondes de las deudas del causante solo hasta el valor de los bienes heredados, sin comprometer tu propio patrimonio."),
			},
		},
	},
	Replies: []string{
		"Entiendo tu consulta. Para orientarte mejor, ¿podrías indicarme la fecha del documento y las partes que lo firmaron?",
		"Según la normativa aplicable, el plazo general para reclamar es de **veinte días hábiles** desde la notificación.\n\n- Reúne la documentación.\n- Solicita la conciliación previa.\n- Presenta la demanda si no hay acuerdo.",
		"Te recomiendo consultar a un profesional colegiado antes de firmar cualquier acuerdo.",
	},
	Latency: 600 * time.Millisecond,
}

// Empty has no past conversations and shows the welcome screen.
var Empty = &demo.Scenario{
	Name:        "empty",
	Description: "A first-time user with no conversations",
	UserID:      DemoUserID,
	Latency:     300 * time.Millisecond,
}

func longConsultation() []demo.Turn {
	questions := []string{
		"Me han despedido alegando bajo rendimiento, ¿es legal?",
		"No recibí ninguna advertencia previa.",
		"¿Cuánto tiempo tengo para reclamar?",
		"¿Qué indemnización me correspondería?",
		"Llevo seis años en la empresa.",
		"¿Necesito abogado para la conciliación?",
		"¿Puedo cobrar el paro mientras reclamo?",
		"¿Qué pasa si la empresa no se presenta?",
	}
	answers := []string{
		"El bajo rendimiento puede justificar un despido disciplinario solo si es continuado y voluntario.",
		"La falta de advertencias previas refuerza la posible improcedencia.",
		"Dispones de veinte días hábiles desde la fecha de efectos del despido.",
		"En un despido improcedente corresponden 33 días de salario por año trabajado.",
		"Con seis años de antigüedad, la indemnización rondaría los 198 días de salario.",
		"No es obligatorio, pero es muy recomendable contar con asesoramiento.",
		"Sí, la reclamación no impide solicitar la prestación por desempleo.",
		"Si la empresa no comparece, el acto se tiene por intentado sin efecto y puedes presentar la demanda.",
	}
	turns := make([]demo.Turn, 0, len(questions)*2)
	for i := range questions {
		turns = append(turns, demo.Human(questions[i]), demo.AI(answers[i]))
	}
	return turns
}

// All returns all built-in scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		Overview,
		Empty,
	}
}

// Get returns a scenario by name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
