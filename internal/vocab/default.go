package vocab

// Default returns the starter vocabulary seeded on first boot when no
// document exists yet. Terms come from the curated Traditional Chinese
// complaint/intent library; weights reflect how strongly a term alone should
// pull the tier score.
func Default(maintainer string) Vocabulary {
	v := Vocabulary{
		Critical:      Tier{Description: "危機與信任受損語言（詐騙、假貨、安全疑慮）"},
		Strategic:     Tier{Description: "品牌忠誠度流失與競品比較"},
		Operational:   Tier{Description: "使用與流程摩擦（物流、退換貨、操作）"},
		Opportunities: Tier{Description: "購買意願與功能許願"},
		Metadata:      Metadata{Maintainer: maintainer},
	}

	seed := func(t *Tier, entries []Entry) {
		for _, e := range entries {
			t.set(e.Term, e.Weight)
		}
	}

	seed(&v.Critical, []Entry{
		{"詐騙", 3}, {"假貨", 3}, {"仿冒", 2.5}, {"黑心", 2.5},
		{"虛假宣傳", 2.5}, {"貨不對板", 2}, {"抄襲", 2}, {"受傷", 2.5},
		{"過敏", 2}, {"危險", 2},
	})
	seed(&v.Strategic, []Entry{
		{"絕不再買", 2.5}, {"不推薦", 2}, {"踩雷", 2}, {"避坑", 2},
		{"黑名單", 2}, {"踢皮球", 2}, {"後悔", 1.5}, {"失望", 1.5},
		{"轉買", 1.5}, {"不如", 1.5},
	})
	seed(&v.Operational, []Entry{
		{"退貨難", 1.5}, {"配送慢", 1.5}, {"出貨慢", 1.5}, {"物流慢", 1.5},
		{"寄丟", 1.5}, {"難用", 1.5}, {"流程複雜", 1.5}, {"運費貴", 1},
		{"看不懂", 1}, {"缺貨", 1},
	})
	seed(&v.Opportunities, []Entry{
		{"代購", 1.5}, {"哪裡買", 1.5}, {"想買", 1.5}, {"求連結", 1.5},
		{"希望推出", 1.5}, {"建議增加", 1.5}, {"敲碗", 1.5}, {"必買", 1},
		{"回購", 1}, {"有貨嗎", 1},
	})

	return v
}
