package handlers

import (
	"community-helper-bot/conversation"
	"community-helper-bot/telegram"
)

func mainMenuKeyboard(isMainAdmin bool) telegram.Keyboard {
	kb := telegram.Keyboard{
		{btnGroupLink, btnSupport},
		{btnReferralLink, btnRules},
		{btnMyStats, btnRewards},
	}
	if isMainAdmin {
		kb = append(kb, []string{btnControlPanel})
	}
	return kb
}

func adminPanelKeyboard() telegram.Keyboard {
	return telegram.Keyboard{
		{btnResponsesMenu},
		{btnManagersMenu},
		{btnTopReferrers, btnExport},
		{btnBroadcast},
		{btnSettings},
		{btnBackToMain},
	}
}

func responsesKeyboard() telegram.Keyboard {
	return telegram.Keyboard{
		{btnAddResponse},
		{btnEditResponse, btnDeleteResp},
		{btnBackToPanel},
	}
}

func managersKeyboard() telegram.Keyboard {
	return telegram.Keyboard{
		{btnAddManager, btnRemoveManager},
		{btnListManagers},
		{btnBackToPanel},
	}
}

// kindKeyboard lays the six kind labels out two per row.
func kindKeyboard() telegram.Keyboard {
	labels := conversation.KindLabels()
	kb := telegram.Keyboard{}
	for i := 0; i < len(labels); i += 2 {
		end := min(i+2, len(labels))
		kb = append(kb, labels[i:end])
	}
	return kb
}
