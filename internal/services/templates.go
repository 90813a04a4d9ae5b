package services

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/kilimo-smart/internal/models"
)

// Menu and reply texts. Everything user-facing is in Swahili.
const (
	mainMenuBody = "1. Bei za Mazao\n" +
		"2. Ushauri wa Kilimo (AI)\n" +
		"3. Tahadhari ya Hali ya Hewa\n" +
		"4. Taarifa za Uhifadhi na Usafirishaji\n" +
		"5. Toka"
	cropMenuBody = "1. Mahindi\n" +
		"2. Maharage\n" +
		"3. Mchele\n" +
		"4. Nyanya\n" +
		"99. Rudi Menu Kuu"
	queryPromptBody = "(Mfano: Nipe ushauri wa kulima mahindi mkoani Morogoro?)\n" +
		"99. Rudi Menu Kuu"
	logisticsMenuBody = "1. Uhifadhi wa Nafaka\n" +
		"2. Usafirishaji\n" +
		"99. Rudi Menu Kuu"

	MsgMainMenu          = "Karibu Kilimo Smart! Chagua Huduma:\n" + mainMenuBody
	MsgMainMenuInvalid   = "Chaguo batili. Tafadhali chagua tena:\n" + mainMenuBody
	MsgCropMenu          = "Chagua Zao:\n" + cropMenuBody
	MsgCropMenuInvalid   = "Chaguo batili. Tafadhali chagua zao:\n" + cropMenuBody
	MsgQueryPrompt       = "Andika swali lako la kilimo:\n" + queryPromptBody
	MsgQueryPromptEmpty  = "Tafadhali ingiza swali lako la kilimo:\n" + queryPromptBody
	MsgLogisticsMenu     = "Chagua aina ya Taarifa:\n" + logisticsMenuBody
	MsgLogisticsInvalid  = "Chaguo batili. Tafadhali chagua:\n" + logisticsMenuBody
	MsgMenuFarewell      = "Asante kwa kutumia Kilimo Smart! Kwaheri."
	MsgMenuGenericError  = "Samahani, kuna tatizo. Tafadhali anza tena."
	MsgWeatherFailed     = "Samahani, imeshindikana kupata taarifa za hali ya hewa kwa sasa."
	MsgThanks            = "Asante kwa kutumia Kilimo Smart!"
	MsgAdviceUnavailable = "Samahani, huduma ya ushauri wa AI haipatikani kwa sasa. Tafadhali jaribu tena baadaye."
	MsgAdviceEmpty       = "Samahani, sikuweza kutoa ushauri kwa ombi hilo. Jibu la AI lilikuwa tupu."
	MsgAdviceFailed      = "Samahani, kuna tatizo la kiufundi na huduma ya ushauri. Tafadhali jaribu tena baadae."

	MsgDialogueWelcome = "Karibu Kilimo Smart! Mimi ni mtaalamu wako wa kilimo kupitia SMS. " +
		"Unaweza kuniuliza chochote kuhusu kilimo, mfano: 'Nipe ushauri wa kulima mahindi.' au 'exit' kuacha."
	MsgDialogueFarewell    = "Asante kwa kutumia huduma ya Kilimo Smart. Kwaheri!"
	MsgDialogueFailed      = "Samahani, kumetokea hitilafu wakati wa kutafuta taarifa. Tafadhali jaribu tena."
	MsgDialogueUnavailable = "Samahani, huduma ya maelezo ya kilimo haipatikani kwa sasa. Jaribu tena baada ya muda mfupi."
)

// withThanks appends the closing line used by every content answer.
func withThanks(body string) string {
	return body + "\n" + MsgThanks
}

func formatWeather(w *models.WeatherSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hali ya hewa %s:\n", w.City)
	fmt.Fprintf(&b, "Joto: %s°C, Unyevunyevu: %s%%\n", formatNumber(w.Temperature), formatNumber(w.Humidity))
	fmt.Fprintf(&b, "Maelezo: %s\n", w.Description)
	fmt.Fprintf(&b, "Upepo: %s m/s\n", formatNumber(w.WindSpeed))
	fmt.Fprintf(&b, "Utabiri: %s", w.ForecastSummary)
	return b.String()
}

// formatNumber drops a trailing ".0" so whole readings print as integers.
func formatNumber(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
