package normalize

// Major category codes shared between candidate classification and
// historical-case processing.
const (
	MajorCS       = "CS"
	MajorEE       = "EE"
	MajorME       = "ME"
	MajorFinance  = "Finance"
	MajorBusiness = "Business"
	MajorOther    = "Other"
)

var majorCategories = map[string]string{
	// Computer science
	"计算机科学与技术":    MajorCS,
	"软件工程":        MajorCS,
	"网络工程":        MajorCS,
	"信息安全":        MajorCS,
	"数据科学与大数据技术":  MajorCS,
	"人工智能":        MajorCS,
	"物联网工程":       MajorCS,
	"数字媒体技术":      MajorCS,
	"智能科学与技术":     MajorCS,

	// Electrical engineering
	"电子信息工程":      MajorEE,
	"通信工程":        MajorEE,
	"电气工程及其自动化":   MajorEE,
	"电子科学与技术":     MajorEE,
	"微电子科学与工程":    MajorEE,
	"光电信息科学与工程":   MajorEE,
	"信息工程":        MajorEE,
	"电子信息科学与技术":   MajorEE,
	"自动化":         MajorEE,

	// Mechanical engineering
	"机械工程":        MajorME,
	"机械设计制造及其自动化": MajorME,
	"材料成型及控制工程":   MajorME,
	"机械电子工程":      MajorME,
	"工业设计":        MajorME,
	"过程装备与控制工程":   MajorME,

	// Finance and economics
	"金融学":         MajorFinance,
	"经济学":         MajorFinance,
	"国际经济与贸易":     MajorFinance,
	"财政学":         MajorFinance,
	"金融工程":        MajorFinance,
	"保险学":         MajorFinance,
	"投资学":         MajorFinance,
	"经济统计学":       MajorFinance,

	// Business and management
	"工商管理":        MajorBusiness,
	"市场营销":        MajorBusiness,
	"会计学":         MajorBusiness,
	"财务管理":        MajorBusiness,
	"人力资源管理":      MajorBusiness,
	"信息管理与信息系统":   MajorBusiness,
	"物流管理":        MajorBusiness,
	"电子商务":        MajorBusiness,
}
