package services

// Brand tables shipped with the engine. Keys are MARCA DE QM values as they
// appear in the inventory extract after normalisation.

var defaultBrandConcat = map[string]string{
	"ACCESORIOS":               "ACCESORIOS",
	"ADIDAS":                   "ADIDAS",
	"AGATHA RUIZ DE LA PRADA":  "AGATHA RUIZ DE LA PRADA",
	"ALICORP":                  "ALICORP",
	"AMAZON":                   "AMAZON",
	"AMWAY":                    "AMWAY",
	"ARDEN FOR MEN":            "AFM/CFM",
	"AVON":                     "AVON",
	"BALANCE":                  "BALANCE",
	"BANCO PREBEL":             "BANCO PREBEL",
	"BEAUTYHOLICS":             "UTOPICK",
	"BIO OIL":                  "BIO OIL",
	"BIOTECNIK":                "BIOTECNIK",
	"BURTS_BEES":               "BURT'S BEES",
	"CADIVEU":                  "CADIVEU",
	"CATRICE":                  "CATRICE",
	"CONNECT FOR MEN":          "AFM/CFM",
	"COSMETRIX":                "COSMETRIX",
	"COVER GIRL":               "COVER GIRL",
	"DIAL":                     "DIAL",
	"DOVE":                     "DOVE",
	"DYCLASS":                  "DYCLASS",
	"ECAR":                     "ECAR",
	"EL EXITO":                 "EL EXITO",
	"ELIZABETH ARDEN":          "ELIZABETH ARDEN",
	"ESSENCE":                  "ESSENCE",
	"FAMILIA":                  "FAMILIA",
	"FEBREZE":                  "FEBREZE",
	"FISA":                     "FISA",
	"HASK":                     "HASK",
	"HENKEL":                   "HENKEL",
	"HERBAL ESSENCES":          "HERBAL ESSENCES",
	"IMPORTADOS PROCTER":       "IMPORTADOS PROCTER",
	"JERONIMO MARTINS":         "JERONIMO MARTINS",
	"KANABECARE":               "KANABECARE",
	"KIMBERLY":                 "KIMBERLY",
	"KOBA":                     "D1",
	"L&G ASOCIADOS":            "L&G ASOCIADOS",
	"LA POPULAR":               "LA POPULAR",
	"LEONISA":                  "LEONISA",
	"LOCATEL":                  "LOCATEL",
	"LOREAL":                   "LOREAL",
	"LOVE, BEAUTY AND PLANET":  "LOVE, BEAUTY AND PLANET",
	"MAUI":                     "MAUI",
	"MAX FACTOR":               "MAX FACTOR",
	"MAX FACTOR EXPORTACIÓN":   "MAX FACTOR",
	"MAX FACTOR GLOBAL":        "MAX FACTOR",
	"MF COL + EXP":             "MAX FACTOR",
	"MF GLOBAL":                "MAX FACTOR",
	"MILAGROS":                 "MILAGROS",
	"MONCLER":                  "MONCLER",
	"MORROCCANOIL":             "MORROCCANOIL",
	"NATURA":                   "NATURA",
	"NATURAL PARADISE":         "NATURAL PARADISE",
	"NIVEA":                    "NIVEA",
	"NOPIKEX":                  "NOPIKEX",
	"NOVAVENTA FPT":            "NOVAVENTA FPT",
	"NUDE":                     "NUDE",
	"OGX":                      "OGX",
	"OLAY":                     "OLAY",
	"OMNILIFE":                 "OMNILIFE",
	"OTRAS":                    "OTRAS",
	"PREBEL":                   "PREBEL",
	"QVS":                      "ACCESORIOS",
	"SALLY HANSEN":             "SALLY HANSEN",
	"SIN ASIGNAR":              "SIN ASIGNAR",
	"SOLLA":                    "SOLLA",
	"ST. IVES":                 "ST. IVES",
	"UBU":                      "ACCESORIOS",
	"UNILEVER":                 "UNILEVER",
	"VENTA DIRECTA COSMÉTICOS": "VENTA DIRECTA COSMÉTICOS",
	"VITÚ":                     "VITÚ",
	"VITÚ  EXPORTACIÓN":        "VITÚ",
	"WELLA CONSUMO":            "WELLA CONSUMO",
	"WELLA PROFESSIONAL":       "WELLA PROFESSIONAL",
	"YARDLEY":                  "YARDLEY",
	"CATÁLOGO DE PRODUCTOS":    "CATÁLOGO DE PRODUCTOS",
	"D1":                       "D1",
	"WORMSER":                  "WORMSER",
	"PROCTER AND GAMBLE":       "P&G",
	"DAVINES":                  "DAVINES",
	"LA FABRIL":                "LA FABRIL",
	"REVOX":                    "REVOX",
	"TENDENCIAS AB":            "TENDENCIAS AB",
}

var defaultBrandSegment = map[string]string{
	"OTROS CLIENTES DO":         "DUEÑOS DE CANAL",
	"MARKETING PERSONAL":        "DUEÑOS DE CANAL",
	"OMNILIFE":                  "DUEÑOS DE CANAL",
	"JERONIMO MARTINS":          "DUEÑOS DE CANAL",
	"LEONISA":                   "DUEÑOS DE CANAL",
	"LOCATEL":                   "DUEÑOS DE CANAL",
	"NOVAVENTA":                 "DUEÑOS DE CANAL",
	"EL ÉXITO":                  "DUEÑOS DE CANAL",
	"MILAGROS ENTERPRISE":       "DUEÑOS DE CANAL",
	"LA POPULAR":                "DUEÑOS DE CANAL",
	"D1":                        "DUEÑOS DE CANAL",
	"USA":                       "DUEÑOS DE CANAL",
	"EL EXITO":                  "DUEÑOS DE CANAL",
	"NOVAVENTA FPT":             "DUEÑOS DE CANAL",
	"MILAGROS":                  "DUEÑOS DE CANAL",
	"WORMSER":                   "DUEÑOS DE CANAL",
	"TENDENCIAS AB":             "DUEÑOS DE CANAL",
	"LA FABRIL":                 "DUEÑOS DE CANAL",
	"UNILEVER":                  "EXPERTOS LOCALES",
	"NATURA":                    "EXPERTOS LOCALES",
	"BIOTECNIK":                 "EXPERTOS LOCALES",
	"NIVEA":                     "EXPERTOS LOCALES",
	"BRITO":                     "EXPERTOS LOCALES",
	"AVON":                      "EXPERTOS LOCALES",
	"OTROS EXPERTOS LOCALES":    "EXPERTOS LOCALES",
	"ALICORP":                   "EXPERTOS LOCALES",
	"SOLLA":                     "EXPERTOS LOCALES",
	"ECAR":                      "EXPERTOS LOCALES",
	"FISA":                      "EXPERTOS LOCALES",
	"KIMBERLY":                  "EXPERTOS LOCALES",
	"BELCORP":                   "EXPERTOS LOCALES",
	"AMWAY":                     "EXPERTOS LOCALES",
	"PROCTER AND GAMBLE":        "EXPERTOS LOCALES",
	"HENKEL":                    "EXPERTOS LOCALES",
	"DIAL":                      "EXPERTOS LOCALES",
	"BEIERSDORF":                "EXPERTOS LOCALES",
	"FAMILIA":                   "EXPERTOS LOCALES",
	"BALANCE":                   "EXPERTOS LOCALES",
	"MAX FACTOR":                "EXPERTOS NO LOCALES",
	"DYCLASS":                   "EXPERTOS NO LOCALES",
	"WELLA CONSUMO":             "EXPERTOS NO LOCALES",
	"BIO OIL":                   "EXPERTOS NO LOCALES",
	"OGX":                       "EXPERTOS NO LOCALES",
	"COVER GIRL":                "EXPERTOS NO LOCALES",
	"WELLA PROFESSIONAL":        "EXPERTOS NO LOCALES",
	"ADIDAS":                    "EXPERTOS NO LOCALES",
	"ACCESORIOS":                "EXPERTOS NO LOCALES",
	"BURTS_BEES":                "EXPERTOS NO LOCALES",
	"NOPIKEX":                   "EXPERTOS NO LOCALES",
	"QVS":                       "EXPERTOS NO LOCALES",
	"UBU":                       "EXPERTOS NO LOCALES",
	"ESSENCE":                   "EXPERTOS NO LOCALES",
	"MORROCCANOIL":              "EXPERTOS NO LOCALES",
	"HASK":                      "EXPERTOS NO LOCALES",
	"HERBAL ESSENCES":           "EXPERTOS NO LOCALES",
	"LOVE, BEAUTY AND PLANET":   "EXPERTOS NO LOCALES",
	"CATRICE":                   "EXPERTOS NO LOCALES",
	"NATURAL PARADISE":          "EXPERTOS NO LOCALES",
	"OLAY":                      "EXPERTOS NO LOCALES",
	"MID":                       "EXPERTOS NO LOCALES",
	"SECRET":                    "EXPERTOS NO LOCALES",
	"FEBREZE":                   "EXPERTOS NO LOCALES",
	"TAMPAX":                    "EXPERTOS NO LOCALES",
	"OFCORSS C.I HERMECO":       "EXPERTOS NO LOCALES",
	"CADIVEU":                   "EXPERTOS NO LOCALES",
	"MAX FACTOR GLOBAL":         "EXPERTOS NO LOCALES",
	"SEBASTIAN":                 "EXPERTOS NO LOCALES",
	"AFFRESH":                   "EXPERTOS NO LOCALES",
	"COSMETRIX":                 "EXPERTOS NO LOCALES",
	"INCENTIVOS MAX FACTOR":     "EXPERTOS NO LOCALES",
	"OTROS EXPERTOS NO LOCALES": "EXPERTOS NO LOCALES",
	"DAVINES":                   "EXPERTOS NO LOCALES",
	"P&G":                       "EXPERTOS NO LOCALES",
	"REVOX":                     "EXPERTOS NO LOCALES",
	"UTOPICK":                   "EXPERTOS NO LOCALES",
	"IMPORTADOS PROCTER":        "EXPERTOS NO LOCALES",
	"ST. IVES":                  "EXPERTOS NO LOCALES",
	"ARDEN FOR MEN":             "MARCAS PROPIAS",
	"NUDE":                      "MARCAS PROPIAS",
	"ELIZABETH ARDEN":           "MARCAS PROPIAS",
	"YARDLEY":                   "MARCAS PROPIAS",
	"VITÚ":                      "MARCAS PROPIAS",
	"PREBEL":                    "MARCAS PROPIAS",
	"OTRAS MP":                  "MARCAS PROPIAS",
	"AFM/CFM":                   "MARCAS PROPIAS",
	"BODY CLEAR":                "NO APLICA",
	"OTRAS":                     "NO APLICA",
	"GILLETTE":                  "NO APLICA",
	"L&G ASOCIADOS":             "NO APLICA",
	"CATÁLOGO DE PRODUCTOS":     "NO APLICA",
	"HINODE":                    "NO APLICA",
	"PFIZER":                    "NO APLICA",
	"CONTEXPORT DISNEY":         "NO APLICA",
	"SYSTEM PROFESSIONAL":       "NO APLICA",
	"WELONDA":                   "NO APLICA",
	"SIN ASIGNAR":               "NO APLICA",
}

var defaultBrandSubsegment = map[string]string{
	"ACCESORIOS":               "OTROS",
	"ADIDAS":                   "OTROS",
	"AGATHA RUIZ DE LA PRADA":  "OTROS",
	"ALICORP":                  "FULL",
	"AMAZON":                   "RETAILERS",
	"AMWAY":                    "SISTEMA DE VENTAS",
	"ARDEN FOR MEN":            "OTROS",
	"AVON":                     "FULL",
	"BALANCE":                  "FULL",
	"BANCO PREBEL":             "FULL",
	"BEAUTYHOLICS":             "OTROS",
	"BIO OIL":                  "OTROS",
	"BIOTECNIK":                "FULL",
	"BURTS_BEES":               "OTROS",
	"CADIVEU":                  "PROFESIONALES",
	"CALA":                     "FULL",
	"CATRICE":                  "OTROS",
	"CONNECT FOR MEN":          "OTROS",
	"COSMETRIX":                "OTROS",
	"COVER GIRL":               "OTROS",
	"DIAL":                     "RETAILERS",
	"DOVE":                     "OTROS",
	"DYCLASS":                  "SISTEMA DE VENTAS",
	"ECAR":                     "FULL",
	"EL EXITO":                 "RETAILERS",
	"ELIZABETH ARDEN":          "OTROS",
	"ESSENCE":                  "OTROS",
	"FAMILIA":                  "FULL",
	"FEBREZE":                  "OTROS",
	"FISA":                     "FULL",
	"HASK":                     "OTROS",
	"HENKEL":                   "FULL",
	"HERBAL ESSENCES":          "OTROS",
	"IMPORTADOS PROCTER":       "OTROS",
	"JERONIMO MARTINS":         "RETAILERS",
	"KANABECARE":               "OTROS",
	"KIMBERLY":                 "FULL",
	"KOBA":                     "RETAILERS",
	"L&G ASOCIADOS":            "FULL",
	"LA POPULAR":               "RETAILERS",
	"LEONISA":                  "SISTEMA DE VENTAS",
	"LOCATEL":                  "RETAILERS",
	"LOREAL":                   "FULL",
	"LOVE, BEAUTY AND PLANET":  "OTROS",
	"MAUI":                     "OTROS",
	"MAX FACTOR":               "OTROS",
	"MAX FACTOR EXPORTACIÓN":   "OTROS",
	"MAX FACTOR GLOBAL":        "OTROS",
	"MILAGROS":                 "SISTEMA DE VENTAS",
	"MONCLER":                  "RETAILERS",
	"MORROCCANOIL":             "PROFESIONALES",
	"NATURA":                   "FULL",
	"NATURAL PARADISE":         "OTROS",
	"NIVEA":                    "FULL",
	"NOPIKEX":                  "OTROS",
	"NOVAVENTA FPT":            "SISTEMA DE VENTAS",
	"NUDE":                     "NUDE",
	"OGX":                      "OTROS",
	"OLAY":                     "OTROS",
	"OMNILIFE":                 "SISTEMA DE VENTAS",
	"OTRAS":                    "OTROS",
	"PREBEL":                   "OTROS",
	"QVS":                      "OTROS",
	"SALLY HANSEN":             "OTROS",
	"SIN ASIGNAR":              "FULL",
	"SOLLA":                    "FULL",
	"ST. IVES":                 "OTROS",
	"UBU":                      "OTROS",
	"UNILEVER":                 "TOLL",
	"VENTA DIRECTA COSMÉTICOS": "FULL",
	"VITÚ":                     "OTROS",
	"VITÚ  EXPORTACIÓN":        "OTROS",
	"WELLA CONSUMO":            "OTROS",
	"WELLA PROFESSIONAL":       "PROFESIONALES",
	"YARDLEY":                  "OTROS",
	"D1":                       "RETAILERS",
	"CATÁLOGO DE PRODUCTOS":    "RETAILERS",
	"WORMSER":                  "RETAILERS",
	"PROCTER AND GAMBLE":       "FULL",
	"DAVINES":                  "OTROS",
	"LA FABRIL":                "OTROS",
	"REVOX":                    "OTROS",
	"TENDENCIAS AB":            "RETAILERS",
}
