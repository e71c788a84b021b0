package roster

// SeedCampaigns returns the built-in demo dataset used on first run, before
// any snapshot has ever been written. Three campaigns showing the range of
// the archive: a fantasy party, a gothic campaign whose NPC carries a
// secret file, and a cyberpunk campaign with a secret-file PC.
func SeedCampaigns() []Campaign {
	return []Campaign{
		{
			ID:          "setting_fr",
			Title:       "Forgotten Realms",
			System:      "DnD 5e",
			Setting:     "Forgotten Realms",
			Theme:       ThemeFantasy,
			Description: "Adventurers of the Forgotten Realms, spanning the Waterdeep and Phandelver campaigns.",
			Characters: []Character{
				{
					ID:          "w1",
					Name:        "Gromph",
					Type:        TypePC,
					Race:        "Half-Orc",
					Class:       "Barbarian",
					Level:       5,
					Status:      StatusAlive,
					Description: "A tavern bouncer with fists of stone and a heart of gold. Fond of kittens.",
					ImageURL:    "https://picsum.photos/id/1012/1024/1024",
				},
				{
					ID:          "w2",
					Name:        "Elara Moonwhisper",
					Type:        TypePC,
					Race:        "Elf",
					Class:       "Wizard",
					Level:       5,
					Status:      StatusAlive,
					Description: "A mage searching for the lost library of her ancestors.",
					ImageURL:    "https://picsum.photos/id/1027/1024/1024",
				},
				{
					ID:          "p1",
					Name:        "Seraphina",
					Type:        TypePC,
					Race:        "Tiefling",
					Class:       "Cleric",
					Level:       8,
					Status:      StatusMIA,
					Description: "A priestess of Ilmater, last seen wandering the borderlands in search of redemption.",
					ImageURL:    "https://picsum.photos/id/1025/1024/1024",
				},
			},
		},
		{
			ID:          "setting_rl",
			Title:       "Ravenloft",
			System:      "DnD 5e",
			Setting:     "Ravenloft",
			Theme:       ThemeGothic,
			Description: "Those trapped in the mists of Barovia, domain of Strahd von Zarovich.",
			Characters: []Character{
				{
					ID:          "s1",
					Name:        "Ismark the Lesser",
					Type:        TypeNPC,
					Race:        "Human",
					Class:       "Fighter",
					Level:       9,
					Status:      StatusAlive,
					Description: "A warrior who took up the sword to protect his sister Ireena. Melancholy but resolute.",
					ImageURL:    "https://picsum.photos/id/1005/1024/1024",
					SecretFile: &SecretFile{
						Title:      "Lycanthropy Progress Log",
						Content:    "Bitten by a werewolf under the third full moon. Turns violent at the scent of fresh meat.",
						ImageURL:   "https://picsum.photos/id/237/1024/1024",
						IsUnlocked: false,
					},
				},
			},
		},
		{
			ID:          "setting_nc",
			Title:       "Night City",
			System:      "Cyberpunk RED",
			Setting:     "Night City",
			Theme:       ThemeCyberpunk,
			Description: "High tech, low life. Edgerunners surviving under corporate rule.",
			Characters: []Character{
				{
					ID:          "cp1",
					Name:        "V0iD",
					Type:        TypePC,
					Race:        "Human",
					Class:       "Netrunner",
					Level:       4, // Rank
					Status:      StatusAlive,
					Description: "A ghost in the network. Hates Arasaka.",
					ImageURL:    "https://picsum.photos/id/1/1024/1024",
					SecretFile: &SecretFile{
						Title:      "Former Identity: Corporate Agent",
						Content:    "Ex-counterintelligence operative for Militech. Wiped their own memory to get out.",
						ImageURL:   "https://picsum.photos/id/2/1024/1024",
						IsUnlocked: false,
					},
				},
			},
		},
	}
}
