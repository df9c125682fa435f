// Package decode contém a decodificação dos payloads proprietários do KICKR Bike.
package decode

import "fmt"

// Cabeçalhos das notificações da característica de grade/trava.
const (
	headerByte0 = 0xFD
	headerLock  = 0x33 // Trava/destrava da simulação de inclinação.
	headerGrade = 0x34 // Inclinação simulada (grade).
)

// DecodeGears decodifica a seleção de marchas do KICKR Bike.
// O payload carrega a marcha dianteira no byte 2 e a traseira no byte 3,
// ambas indexadas a partir de zero. Payloads curtos retornam um par
// sentinela em vez de erro.
func DecodeGears(data []byte) (string, string) {
	if len(data) < 4 {
		return "Bad Gear", "Data"
	}
	front := 1 + int(data[2])
	rear := 1 + int(data[3])
	return fmt.Sprintf("Front Gear: %d", front), fmt.Sprintf("Rear Gear : %d", rear)
}

// GradeLockState guarda o último valor conhecido de grade e de trava.
// Os dois campos chegam em notificações independentes, então cada um
// persiste até ser sobrescrito pela próxima notificação do mesmo tipo.
// Escrita apenas via Apply; um único escritor por construção.
type GradeLockState struct {
	grade    string
	hasGrade bool
	locked   bool
	hasLock  bool
}

// Apply processa uma notificação de grade/trava e devolve o rótulo composto
// a partir do estado persistido completo. O segundo retorno é false enquanto
// nenhum dos dois campos for conhecido. Cabeçalhos desconhecidos não mutam
// o estado, mas ainda compõem o rótulo do estado atual.
func (s *GradeLockState) Apply(data []byte) (string, bool) {
	if len(data) >= 3 && data[0] == headerByte0 && data[1] == headerLock {
		s.locked = data[2] == 0x01
		s.hasLock = true
	}

	if len(data) >= 4 && data[0] == headerByte0 && data[1] == headerGrade {
		raw := uint16(data[3])<<8 | uint16(data[2])
		if data[3] < 0x80 {
			s.grade = fmt.Sprintf("+%.1f%%", float64(raw)/100.0)
		} else {
			// Codificação negativa proprietária do KICKR: não é complemento
			// de dois do valor original, é 0xFFFF menos o valor bruto.
			tmp := 0xFFFF - raw
			s.grade = fmt.Sprintf("-%.1f%%", float64(tmp)/100.0)
		}
		s.hasGrade = true
	}

	switch {
	case s.hasGrade && s.hasLock:
		return fmt.Sprintf("%s (%s)", s.grade, lockText(s.locked)), true
	case s.hasGrade:
		return s.grade, true
	case s.hasLock:
		return lockText(s.locked), true
	}
	return "", false
}

func lockText(locked bool) string {
	if locked {
		return "L"
	}
	return "U"
}
