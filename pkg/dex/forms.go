package dex

// RegionalForms maps a pokedex id to the species whose regional form
// replaces the default sprite in that dex (species id -> pokemon form id).
var RegionalForms = map[int]map[int]int{
	16: alolanForms,
	27: galarianForms,
	28: galarianForms,
	29: galarianForms,
	30: hisuianForms,
	31: paldeanForms,
}

// FormFor returns the form id to display for species in the given pokedex.
func FormFor(pokedexID, speciesID int) int {
	if form, ok := RegionalForms[pokedexID][speciesID]; ok {
		return form
	}
	return speciesID
}

var galarianForms = map[int]int{
	52:  10161, // Meowth
	77:  10162, // Ponyta
	78:  10163, // Rapidash
	79:  10164, // Slowpoke
	80:  10165, // Slowbro
	83:  10166, // Farfetch'd
	110: 10167, // Weezing
	122: 10168, // Mr. Mime
	144: 10169, // Articuno
	145: 10170, // Zapdos
	146: 10171, // Moltres
	199: 10172, // Slowking
	222: 10173, // Corsola
	263: 10174, // Zigzagoon
	264: 10175, // Linoone
	554: 10176, // Darumaka
	555: 10177, // Darmanitan
	562: 10179, // Yamask
	618: 10180, // Stunfisk
}

var alolanForms = map[int]int{
	19:  10091, // Rattata
	20:  10092, // Raticate
	26:  10100, // Raichu
	27:  10101, // Sandshrew
	28:  10102, // Sandslash
	37:  10103, // Vulpix
	38:  10104, // Ninetales
	50:  10105, // Diglett
	51:  10106, // Dugtrio
	52:  10107, // Meowth
	53:  10108, // Persian
	74:  10109, // Geodude
	75:  10110, // Graveler
	76:  10111, // Golem
	88:  10112, // Grimer
	89:  10113, // Muk
	103: 10114, // Exeggutor
	105: 10115, // Marowak
}

var hisuianForms = map[int]int{
	58:  10229, // Growlithe
	59:  10230, // Arcanine
	100: 10231, // Voltorb
	101: 10232, // Electrode
	157: 10233, // Typhlosion
	211: 10234, // Qwilfish
	215: 10235, // Sneasel
	503: 10236, // Samurott
	549: 10237, // Lilligant
	550: 10247, // Basculin (White-Striped)
	570: 10238, // Zorua
	571: 10239, // Zoroark
	628: 10240, // Braviary
	705: 10241, // Sliggoo
	706: 10242, // Goodra
	713: 10243, // Avalugg
	724: 10244, // Decidueye
}

var paldeanForms = map[int]int{
	128: 10250, // Tauros (Combat Breed)
	194: 10253, // Wooper
}
