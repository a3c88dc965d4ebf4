package normalize

import "github.com/suanho/compass/internal/casebook"

// universityTiers is the built-in tier table. The C9 list is complete; the
// 985 and 211 lists cover the schools seen in the historical corpus and can
// be extended through the override file without a rebuild.
var universityTiers = map[string]casebook.Tier{
	// C9 league
	"北京大学":     casebook.TierC9,
	"清华大学":     casebook.TierC9,
	"复旦大学":     casebook.TierC9,
	"上海交通大学":   casebook.TierC9,
	"南京大学":     casebook.TierC9,
	"浙江大学":     casebook.TierC9,
	"中国科学技术大学": casebook.TierC9,
	"哈尔滨工业大学":  casebook.TierC9,
	"西安交通大学":   casebook.TierC9,

	// 985 project
	"中国人民大学":   casebook.Tier985,
	"北京理工大学":   casebook.Tier985,
	"北京航空航天大学": casebook.Tier985,
	"北京师范大学":   casebook.Tier985,
	"中央民族大学":   casebook.Tier985,
	"南开大学":     casebook.Tier985,
	"天津大学":     casebook.Tier985,
	"大连理工大学":   casebook.Tier985,
	"东北大学":     casebook.Tier985,
	"吉林大学":     casebook.Tier985,
	"同济大学":     casebook.Tier985,
	"华东师范大学":   casebook.Tier985,
	"东南大学":     casebook.Tier985,
	"山东大学":     casebook.Tier985,
	"中国海洋大学":   casebook.Tier985,
	"武汉大学":     casebook.Tier985,
	"华中科技大学":   casebook.Tier985,
	"湖南大学":     casebook.Tier985,
	"中南大学":     casebook.Tier985,
	"中山大学":     casebook.Tier985,
	"华南理工大学":   casebook.Tier985,
	"四川大学":     casebook.Tier985,
	"重庆大学":     casebook.Tier985,
	"电子科技大学":   casebook.Tier985,
	"西北工业大学":   casebook.Tier985,
	"西北农林科技大学": casebook.Tier985,
	"兰州大学":     casebook.Tier985,

	// 211 project
	"北京邮电大学":   casebook.Tier211,
	"北京科技大学":   casebook.Tier211,
	"北京化工大学":   casebook.Tier211,
	"北京林业大学":   casebook.Tier211,
	"中国传媒大学":   casebook.Tier211,
	"中央财经大学":   casebook.Tier211,
	"对外经济贸易大学": casebook.Tier211,
	"华北电力大学":   casebook.Tier211,
	"中国石油大学":   casebook.Tier211,
	"河北工业大学":   casebook.Tier211,
	"太原理工大学":   casebook.Tier211,
	"内蒙古大学":    casebook.Tier211,
	"辽宁大学":     casebook.Tier211,
	"大连海事大学":   casebook.Tier211,
	"延边大学":     casebook.Tier211,
	"东北师范大学":   casebook.Tier211,
	"东北林业大学":   casebook.Tier211,
	"东北农业大学":   casebook.Tier211,
	"华东理工大学":   casebook.Tier211,
	"东华大学":     casebook.Tier211,
	"上海财经大学":   casebook.Tier211,
	"上海大学":     casebook.Tier211,
	"苏州大学":     casebook.Tier211,
	"南京师范大学":   casebook.Tier211,
	"中国矿业大学":   casebook.Tier211,
	"河海大学":     casebook.Tier211,
	"江南大学":     casebook.Tier211,
	"南京农业大学":   casebook.Tier211,
	"中国药科大学":   casebook.Tier211,
	"南京理工大学":   casebook.Tier211,
	"南京航空航天大学": casebook.Tier211,
	"安徽大学":     casebook.Tier211,
	"合肥工业大学":   casebook.Tier211,
	"福州大学":     casebook.Tier211,
	"南昌大学":     casebook.Tier211,
	"郑州大学":     casebook.Tier211,
	"华中师范大学":   casebook.Tier211,
	"中南财经政法大学": casebook.Tier211,
	"华中农业大学":   casebook.Tier211,
	"湖南师范大学":   casebook.Tier211,
	"暨南大学":     casebook.Tier211,
	"华南师范大学":   casebook.Tier211,
	"广西大学":     casebook.Tier211,
	"海南大学":     casebook.Tier211,
	"西南大学":     casebook.Tier211,
	"西南交通大学":   casebook.Tier211,
	"四川农业大学":   casebook.Tier211,
	"贵州大学":     casebook.Tier211,
	"云南大学":     casebook.Tier211,
	"西北大学":     casebook.Tier211,
	"西安电子科技大学": casebook.Tier211,
	"长安大学":     casebook.Tier211,
	"陕西师范大学":   casebook.Tier211,
	"青海大学":     casebook.Tier211,
	"宁夏大学":     casebook.Tier211,
	"新疆大学":     casebook.Tier211,
	"石河子大学":    casebook.Tier211,
	"西藏大学":     casebook.Tier211,

	"深圳大学": casebook.TierOrdinary,
}
